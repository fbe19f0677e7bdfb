// Package events contains the message contracts of the dashboard websocket
// interaction channel.
package events

import (
	"time"

	"ridepulse/pkg/contracts/domain"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Client to server
const (
	MessageTypeSelectView MessageType = "select_view"
	MessageTypeSetFilters MessageType = "set_filters"
	MessageTypeRender     MessageType = "render"
	MessageTypeReset      MessageType = "reset"
)

// Server to client
const (
	MessageTypeConnected MessageType = "connected"
	MessageTypeView      MessageType = "view"
	MessageTypeError     MessageType = "error"
)

// Error codes carried by error messages
const (
	ErrorCodeInvalidMessage     = "INVALID_MESSAGE"
	ErrorCodeUnknownType        = "UNKNOWN_MESSAGE_TYPE"
	ErrorCodeUnknownView        = "UNKNOWN_VIEW"
	ErrorCodeFilterNotSupported = "FILTER_NOT_SUPPORTED"
	ErrorCodeSessionNotFound    = "SESSION_NOT_FOUND"
	ErrorCodeDatasetNotLoaded   = "DATASET_NOT_LOADED"
	ErrorCodeInternal           = "INTERNAL_ERROR"
)

// ClientMessage is an interaction sent by the dashboard client. View names
// accept menu labels; Filters apply to View, or the active view when empty.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	View    string          `json:"view,omitempty"`
	Filters *domain.Filters `json:"filters,omitempty"`
}

// ServerMessage is a reply to the client
type ServerMessage struct {
	Type      MessageType   `json:"type"`
	SessionID string        `json:"session_id,omitempty"`
	Data      interface{}   `json:"data,omitempty"`
	Error     *ErrorPayload `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	TraceID   string        `json:"trace_id,omitempty"`
}

// ErrorPayload describes a rejected interaction
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ViewMessage wraps a rendered view
func ViewMessage(sessionID string, vm *domain.ViewModel) ServerMessage {
	return ServerMessage{
		Type:      MessageTypeView,
		SessionID: sessionID,
		Data:      vm,
		Timestamp: time.Now(),
	}
}

// ErrorMessage reports a rejected interaction
func ErrorMessage(sessionID, code, message string) ServerMessage {
	return ServerMessage{
		Type:      MessageTypeError,
		SessionID: sessionID,
		Error:     &ErrorPayload{Code: code, Message: message},
		Timestamp: time.Now(),
	}
}

// ConnectedData is the payload of the greeting sent after the upgrade
type ConnectedData struct {
	ClientID   string      `json:"client_id"`
	ActiveView domain.View `json:"active_view"`
	Resumed    bool        `json:"resumed"`
}

// ConnectedMessage greets a client bound to sessionID
func ConnectedMessage(sessionID string, data ConnectedData) ServerMessage {
	return ServerMessage{
		Type:      MessageTypeConnected,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now(),
	}
}
