package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ridepulse/internal/dashboard"
	apierrors "ridepulse/internal/errors"
	appmw "ridepulse/internal/middleware"
	"ridepulse/internal/services"
	api "ridepulse/pkg/contracts/api/v1"
	"ridepulse/pkg/contracts/domain"
)

// DashboardHandler serves stateless renders and exports
type DashboardHandler struct {
	service      DashboardServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validate:     appmw.NewValidator(),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes, mounted under /api
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/dataset", h.GetDataset)
		r.Get("/views", h.GetViews)
		r.Get("/dashboard/{view}", h.GetView)
	})

	r.Get("/dashboard/{view}/export", h.ExportView)
	r.Get("/export/workbook", h.ExportWorkbook)

	return r
}

// GetDataset handles GET /api/dataset
func (h *DashboardHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.DatasetInfo(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Success(info))
}

// GetViews handles GET /api/views
func (h *DashboardHandler) GetViews(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.Views(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Success(views))
}

// GetView handles GET /api/dashboard/{view}. Responses carry an ETag; a
// matching If-None-Match yields 304 without rendering.
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, ok := h.renderState(w, r)
	if !ok {
		return
	}

	etag, err := h.service.ETag(state)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	vm, err := h.service.Render(ctx, state)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(ctx, "view rendered",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("view", string(vm.View)),
		slog.Int("rows", vm.RowCount),
	)
	render.JSON(w, r, api.Success(vm))
}

// ExportView handles GET /api/dashboard/{view}/export?format=csv|xlsx|json
func (h *DashboardHandler) ExportView(w http.ResponseWriter, r *http.Request) {
	state, ok := h.renderState(w, r)
	if !ok {
		return
	}

	req := api.ExportRequest{Format: r.URL.Query().Get(api.ParamFormat)}
	if err := appmw.ValidateStruct(h.validate, req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format := req.Format
	if format == "" {
		format = services.FormatCSV
	}

	var buf bytes.Buffer
	contentType, err := h.service.Export(r.Context(), state, format, &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("ridepulse-%s.%s", strings.ToLower(string(state.View)), format)
	writeDownload(w, contentType, filename, buf.Bytes())
}

// ExportWorkbook handles GET /api/export/workbook
func (h *DashboardHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportWorkbook(r.Context(), &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeDownload(w, services.ContentTypeXLSX, "ridepulse-dashboard.xlsx", buf.Bytes())
}

// renderState reads the view path parameter and filter query. On failure the
// error response has been written.
func (h *DashboardHandler) renderState(w http.ResponseWriter, r *http.Request) (dashboard.RenderState, bool) {
	raw := chi.URLParam(r, "view")
	view, ok := domain.ParseView(raw)
	if !ok {
		h.errorHandler.HandleError(w, r, fmt.Errorf("%w: %q", dashboard.ErrUnknownView, raw))
		return dashboard.RenderState{}, false
	}

	req := api.FilterRequestFromQuery(r.URL.Query())
	if err := appmw.ValidateStruct(h.validate, req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return dashboard.RenderState{}, false
	}
	filters, err := req.ToFilters()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return dashboard.RenderState{}, false
	}

	return dashboard.RenderState{View: view, Filters: filters}, true
}

// etagMatches reports whether an If-None-Match header matches etag
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func writeDownload(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
