package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errMockClosed = errors.New("connection closed")

// mockConnection replays scripted inbound frames and records outbound ones
type mockConnection struct {
	mu sync.Mutex

	inbound  [][]byte
	written  []mockFrame
	closed   bool
	limit    int64
	deadline time.Time
	onPong   func(string) error
}

type mockFrame struct {
	Type int
	Data []byte
}

func newMockConnection(inbound ...string) *mockConnection {
	m := &mockConnection{}
	for _, s := range inbound {
		m.inbound = append(m.inbound, []byte(s))
	}
	return m
}

func (m *mockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errMockClosed
	}
	m.written = append(m.written, mockFrame{Type: messageType, Data: data})
	return nil
}

// ReadMessage returns the next scripted frame, then a normal close
func (m *mockConnection) ReadMessage() (int, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || len(m.inbound) == 0 {
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
	next := m.inbound[0]
	m.inbound = m.inbound[1:]
	return websocket.TextMessage, next, nil
}

func (m *mockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConnection) SetReadDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadline = t
	return nil
}

func (m *mockConnection) SetWriteDeadline(time.Time) error { return nil }

func (m *mockConnection) SetReadLimit(limit int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limit = limit
}

func (m *mockConnection) SetPongHandler(h func(string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPong = h
}

func (m *mockConnection) RemoteAddr() string { return "127.0.0.1:9000" }

func (m *mockConnection) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockConnection) readLimit() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limit
}
