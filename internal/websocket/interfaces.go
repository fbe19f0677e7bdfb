package websocket

import (
	"context"
	"time"

	"ridepulse/internal/session"
	"ridepulse/pkg/contracts/domain"
)

// Connection defines the interface for WebSocket connections
// This allows for proper mocking in tests
type Connection interface {
	// WriteMessage writes a message with the given message type and payload
	WriteMessage(messageType int, data []byte) error

	// ReadMessage reads a message from the connection
	ReadMessage() (messageType int, p []byte, err error)

	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error

	// SetReadLimit sets the maximum size for a message read from the connection
	SetReadLimit(limit int64)

	// SetPongHandler sets the handler for pong messages
	SetPongHandler(h func(string) error)

	// RemoteAddr returns the remote network address
	RemoteAddr() string
}

// SessionService is the part of the dashboard service a connection drives.
// Every interaction mutates the bound session and is answered by a render.
type SessionService interface {
	CreateSession(ctx context.Context) (session.ViewState, error)
	Session(ctx context.Context, id string) (session.ViewState, error)
	EndSession(ctx context.Context, id string) error
	SelectView(ctx context.Context, id, name string) (session.ViewState, error)
	SetFilters(ctx context.Context, id string, view domain.View, f domain.Filters) (session.ViewState, error)
	ResetFilters(ctx context.Context, id string) (session.ViewState, error)
	RenderSession(ctx context.Context, id string) (*domain.ViewModel, error)
}
