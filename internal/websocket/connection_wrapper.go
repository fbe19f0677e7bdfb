package websocket

import (
	"github.com/gorilla/websocket"
)

// ConnectionWrapper satisfies Connection with a gorilla connection. Every
// method except RemoteAddr is promoted from the embedded *websocket.Conn.
type ConnectionWrapper struct {
	*websocket.Conn
}

// NewConnectionWrapper creates a new connection wrapper
func NewConnectionWrapper(conn *websocket.Conn) Connection {
	return ConnectionWrapper{Conn: conn}
}

// RemoteAddr returns the peer address as text, or "" when unknown
func (c ConnectionWrapper) RemoteAddr() string {
	if addr := c.Conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
