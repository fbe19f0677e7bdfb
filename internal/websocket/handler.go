package websocket

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"ridepulse/internal/config"
	apierrors "ridepulse/internal/errors"
	"ridepulse/internal/infrastructure"
	"ridepulse/internal/session"
	"ridepulse/pkg/contracts/events"
)

// SessionParam names the query parameter that resumes an existing session
const SessionParam = "session"

// Handler upgrades dashboard clients and binds each connection to a session
type Handler struct {
	hub          *Hub
	service      SessionService
	cfg          config.WebSocketConfig
	upgrader     websocket.Upgrader
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewHandler creates the websocket endpoint handler. An empty allowedOrigins
// accepts any origin.
func NewHandler(hub *Hub, service SessionService, cfg config.WebSocketConfig, allowedOrigins []string, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	cfg = withDefaults(cfg)

	return &Handler{
		hub:     hub,
		service: service,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "websocket.handler")),
	}
}

// ServeHTTP resolves the session before upgrading so unknown sessions are
// rejected with a regular HTTP problem response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		state session.ViewState
		err   error
		owns  bool
	)
	if id := r.URL.Query().Get(SessionParam); id != "" {
		state, err = h.service.Session(ctx, id)
	} else {
		state, err = h.service.CreateSession(ctx)
		owns = true
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		h.logger.WarnContext(ctx, "websocket upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		if owns {
			_ = h.service.EndSession(ctx, state.ID)
		}
		return
	}

	// pumps outlive the request
	clientCtx := context.WithoutCancel(ctx)
	client := NewClient(clientCtx, h.hub, NewConnectionWrapper(conn), h.service, h.cfg, state.ID, owns, h.logger)

	greeting := events.ConnectedMessage(state.ID, events.ConnectedData{
		ClientID:   client.ID(),
		ActiveView: state.ActiveView,
		Resumed:    !owns,
	})
	if err := client.Enqueue(greeting); err != nil {
		h.logger.ErrorContext(ctx, "failed to queue greeting", slog.String("error", err.Error()))
	}

	if err := h.hub.Register(client); err != nil {
		_ = conn.Close()
		if owns {
			_ = h.service.EndSession(clientCtx, state.ID)
		}
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

func withDefaults(cfg config.WebSocketConfig) config.WebSocketConfig {
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = config.WebSocketReadBufferSize
	}
	if cfg.WriteBufferSize <= 0 {
		cfg.WriteBufferSize = config.WebSocketWriteBufferSize
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = config.WebSocketPongWait
	}
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg.PingPeriod = cfg.PongWait * 9 / 10
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = config.WebSocketWriteWait
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = config.WebSocketMaxMessageSize
	}
	return cfg
}
