package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ridepulse/internal/config"
	"ridepulse/internal/dashboard"
	apierrors "ridepulse/internal/errors"
	"ridepulse/internal/infrastructure"
	"ridepulse/internal/session"
	"ridepulse/pkg/contracts/domain"
	"ridepulse/pkg/contracts/events"
)

const sendBufferSize = 64

// Client binds one websocket connection to one dashboard session. Inbound
// messages are handled strictly in arrival order on the read pump, and each
// produces exactly one reply.
type Client struct {
	hub     *Hub
	conn    Connection
	service SessionService
	cfg     config.WebSocketConfig

	// Buffered channel of outbound messages
	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	id          string
	sessionID   string
	ownsSession bool
	traceID     string
	remoteAddr  string
	connectedAt time.Time
	baseCtx     context.Context

	logger *slog.Logger

	messagesReceived int64
	messagesSent     int64
}

// NewClient creates a client for an upgraded connection bound to sessionID.
// When ownsSession is set the session ends with the connection.
func NewClient(ctx context.Context, hub *Hub, conn Connection, service SessionService, cfg config.WebSocketConfig, sessionID string, ownsSession bool, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	id := uuid.New().String()
	ctx = infrastructure.WithSessionID(infrastructure.EnsureTraceID(ctx), sessionID)
	traceID := infrastructure.GetTraceID(ctx)

	return &Client{
		hub:         hub,
		conn:        conn,
		service:     service,
		cfg:         cfg,
		send:        make(chan []byte, sendBufferSize),
		closed:      make(chan struct{}),
		id:          id,
		sessionID:   sessionID,
		ownsSession: ownsSession,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		baseCtx:     ctx,
		logger: logger.With(
			slog.String("component", "websocket.client"),
			slog.String("client_id", id),
			slog.String("session_id", sessionID),
		),
	}
}

// ID returns the client identifier
func (c *Client) ID() string { return c.id }

// SessionID returns the bound session
func (c *Client) SessionID() string { return c.sessionID }

func (c *Client) context() context.Context { return c.baseCtx }

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.closed) })
}

// Enqueue queues a message for the write pump. It blocks while the queue is
// full and gives up once the client is closed.
func (c *Client) Enqueue(msg events.ServerMessage) error {
	if msg.TraceID == "" {
		msg.TraceID = c.traceID
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Type, err)
	}

	select {
	case c.send <- data:
		return nil
	case <-c.closed:
		return ErrHubStopped
	}
}

// ReadPump reads interactions until the peer goes away. It unregisters the
// client and ends an owned session on exit.
func (c *Client) ReadPump() {
	ctx := c.context()
	defer func() {
		c.hub.Unregister(c)
		c.close()
		_ = c.conn.Close()

		if c.ownsSession {
			if err := c.service.EndSession(ctx, c.sessionID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
				c.logger.WarnContext(ctx, "failed to end session", slog.String("error", err.Error()))
			}
		}
		c.logger.InfoContext(ctx, "client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("messages_received", c.messagesReceived))
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WarnContext(ctx, "unexpected websocket close", slog.String("error", err.Error()))
			}
			return
		}
		c.messagesReceived++

		if err := c.Enqueue(c.Handle(ctx, raw)); err != nil {
			return
		}
	}
}

// WritePump drains the outbound queue and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		c.logger.Debug("write pump stopped", slog.Int64("messages_sent", c.messagesSent))
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("write failed", slog.String("error", err.Error()))
				return
			}
			c.messagesSent++

		case <-c.closed:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

// Handle applies one raw interaction to the session and returns the reply:
// the re-rendered active view, or an error message.
func (c *Client) Handle(ctx context.Context, raw []byte) events.ServerMessage {
	var msg events.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return events.ErrorMessage(c.sessionID, events.ErrorCodeInvalidMessage, "invalid message: "+err.Error())
	}

	var err error
	switch msg.Type {
	case events.MessageTypeSelectView:
		_, err = c.service.SelectView(ctx, c.sessionID, msg.View)

	case events.MessageTypeSetFilters:
		var view domain.View
		if msg.View != "" {
			parsed, ok := domain.ParseView(msg.View)
			if !ok {
				return events.ErrorMessage(c.sessionID, events.ErrorCodeUnknownView, fmt.Sprintf("unknown view %q", msg.View))
			}
			view = parsed
		}
		var filters domain.Filters
		if msg.Filters != nil {
			filters = *msg.Filters
		}
		_, err = c.service.SetFilters(ctx, c.sessionID, view, filters)

	case events.MessageTypeReset:
		_, err = c.service.ResetFilters(ctx, c.sessionID)

	case events.MessageTypeRender:

	default:
		return events.ErrorMessage(c.sessionID, events.ErrorCodeUnknownType, fmt.Sprintf("unknown message type %q", msg.Type))
	}
	if err != nil {
		return c.failure(ctx, msg.Type, err)
	}

	vm, err := c.service.RenderSession(ctx, c.sessionID)
	if err != nil {
		return c.failure(ctx, msg.Type, err)
	}
	return events.ViewMessage(c.sessionID, vm)
}

func (c *Client) failure(ctx context.Context, msgType events.MessageType, err error) events.ServerMessage {
	code := errorCode(err)
	if code == events.ErrorCodeInternal {
		c.logger.ErrorContext(ctx, "interaction failed",
			slog.String("message_type", string(msgType)),
			slog.String("error", err.Error()))
		infrastructure.RecordError(ctx, err)
		return events.ErrorMessage(c.sessionID, code, "internal error")
	}
	return events.ErrorMessage(c.sessionID, code, err.Error())
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, session.ErrUnknownView), errors.Is(err, dashboard.ErrUnknownView):
		return events.ErrorCodeUnknownView
	case errors.Is(err, dashboard.ErrFilterNotSupported):
		return events.ErrorCodeFilterNotSupported
	case errors.Is(err, session.ErrSessionNotFound):
		return events.ErrorCodeSessionNotFound
	case errors.Is(err, apierrors.ErrDatasetNotLoaded):
		return events.ErrorCodeDatasetNotLoaded
	default:
		return events.ErrorCodeInternal
	}
}
