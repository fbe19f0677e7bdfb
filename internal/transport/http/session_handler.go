package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ridepulse/internal/dashboard"
	apierrors "ridepulse/internal/errors"
	appmw "ridepulse/internal/middleware"
	"ridepulse/internal/session"
	api "ridepulse/pkg/contracts/api/v1"
	"ridepulse/pkg/contracts/domain"
)

// SessionHandler exposes server-held view state over REST
type SessionHandler struct {
	service      SessionServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service SessionServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SessionHandler {
	return &SessionHandler{
		service:      service,
		validate:     appmw.NewValidator(),
		logger:       logger.With(slog.String("component", "session_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the session routes, mounted under /api/sessions
func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(appmw.ContentTypeValidator(h.errorHandler, "application/json"))
	r.Use(appmw.NewValidationMiddleware(h.logger, h.errorHandler).ValidateRequest)

	r.Post("/", h.CreateSession)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Put("/view", h.SelectView)
		r.Put("/filters", h.SetFilters)
		r.Delete("/filters", h.ResetFilters)
		r.Get("/render", h.RenderSession)
	})

	return r
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.CreateSession(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "session created",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("session_id", state.ID),
	)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.Success(toSessionResponse(state)))
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Success(toSessionResponse(state)))
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectView handles PUT /api/sessions/{id}/view
func (h *SessionHandler) SelectView(w http.ResponseWriter, r *http.Request) {
	var req api.SelectViewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := appmw.ValidateStruct(h.validate, req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	state, err := h.service.SelectView(r.Context(), chi.URLParam(r, "id"), req.View)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Success(toSessionResponse(state)))
}

// SetFilters handles PUT /api/sessions/{id}/filters. The target view comes
// from ?view=, then the body, then the session's active view. An empty body
// clears every filter of the target view.
func (h *SessionHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var req api.SetFiltersRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if q := r.URL.Query().Get(api.ParamView); q != "" {
		req.View = q
	}
	if err := appmw.ValidateStruct(h.validate, req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var view domain.View
	if req.View != "" {
		view, _ = domain.ParseView(req.View)
	}
	filters, err := req.ToFilters()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	state, err := h.service.SetFilters(r.Context(), chi.URLParam(r, "id"), view, filters)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Success(toSessionResponse(state)))
}

// ResetFilters handles DELETE /api/sessions/{id}/filters
func (h *SessionHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.ResetFilters(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Success(toSessionResponse(state)))
}

// RenderSession handles GET /api/sessions/{id}/render
func (h *SessionHandler) RenderSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	vm, err := h.service.RenderSession(r.Context(), id)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) && !errors.Is(err, dashboard.ErrFilterNotSupported) {
			h.logger.ErrorContext(r.Context(), "session render failed",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("session_id", id),
				slog.String("error", err.Error()),
			)
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Success(vm))
}

func toSessionResponse(state session.ViewState) api.SessionResponse {
	filters := make(map[domain.View]domain.Filters, len(state.Filters))
	for v, f := range state.Filters {
		filters[v] = f
	}
	return api.SessionResponse{
		ID:         state.ID,
		ActiveView: state.ActiveView,
		Filters:    filters,
		CreatedAt:  state.CreatedAt,
		LastSeen:   state.LastSeen,
	}
}
