package session

import "errors"

var (
	// ErrSessionNotFound is returned for unknown or evicted session IDs
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned when the store is at capacity
	ErrTooManySessions = errors.New("too many active sessions")

	// ErrUnknownView is returned when a view name is not one of the dashboard views
	ErrUnknownView = errors.New("unknown view")
)
