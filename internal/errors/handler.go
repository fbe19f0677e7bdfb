package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ridepulse/internal/bookings"
	"ridepulse/internal/dashboard"
	"ridepulse/internal/session"
)

// Common error types following RFC 7807
const (
	TypeValidation  = "/errors/validation"
	TypeNotFound    = "/errors/not-found"
	TypeRateLimit   = "/errors/rate-limit"
	TypeInternal    = "/errors/internal"
	TypeServiceDown = "/errors/service-unavailable"
	TypeTimeout     = "/errors/timeout"
)

// Domain-specific error types
const (
	TypeDatasetUnavailable    = "/errors/dataset/unavailable"
	TypeDatasetSchemaMismatch = "/errors/dataset/schema-mismatch"
	TypeDatasetNotLoaded      = "/errors/dataset/not-loaded"
	TypeViewUnknown           = "/errors/view/unknown"
	TypeFilterNotSupported    = "/errors/filter/not-supported"
	TypeSessionNotFound       = "/errors/session/not-found"
	TypeSessionCapacity       = "/errors/session/capacity"
	TypeExportFormat          = "/errors/export/unsupported-format"
	TypeWebSocketUpgrade      = "/errors/websocket/upgrade-failed"
)

// problemMapping ties a sentinel to its HTTP representation
type problemMapping struct {
	target error
	status int
	ptype  string
	title  string
}

var domainProblems = []problemMapping{
	{bookings.ErrDataUnavailable, http.StatusServiceUnavailable, TypeDatasetUnavailable, "Dataset Unavailable"},
	{bookings.ErrSchemaMismatch, http.StatusUnprocessableEntity, TypeDatasetSchemaMismatch, "Dataset Schema Mismatch"},
	{ErrDatasetNotLoaded, http.StatusServiceUnavailable, TypeDatasetNotLoaded, "Dataset Not Loaded"},
	{dashboard.ErrUnknownView, http.StatusNotFound, TypeViewUnknown, "Unknown View"},
	{session.ErrUnknownView, http.StatusNotFound, TypeViewUnknown, "Unknown View"},
	{dashboard.ErrFilterNotSupported, http.StatusBadRequest, TypeFilterNotSupported, "Filter Not Supported"},
	{session.ErrSessionNotFound, http.StatusNotFound, TypeSessionNotFound, "Session Not Found"},
	{session.ErrTooManySessions, http.StatusServiceUnavailable, TypeSessionCapacity, "Session Limit Reached"},
	{ErrUnsupportedFormat, http.StatusBadRequest, TypeExportFormat, "Unsupported Export Format"},
}

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	for _, m := range domainProblems {
		if errors.Is(err, m.target) {
			problem := NewProblemDetails(m.status, m.ptype, m.title, err.Error(), r.URL.Path)
			addLoadErrorDetails(problem, err)
			return problem
		}
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErrorToProblem(appErr, r)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		r.URL.Path,
	)
}

// addLoadErrorDetails exposes the offending columns or cell of a dataset failure
func addLoadErrorDetails(problem *ProblemDetails, err error) {
	var loadErr *bookings.LoadError
	if !errors.As(err, &loadErr) {
		return
	}
	if loadErr.Source != "" {
		problem.WithExtension("source", loadErr.Source)
	}
	if len(loadErr.Missing) > 0 {
		problem.WithExtension("missing_columns", loadErr.Missing)
	}
	if loadErr.Row > 0 {
		problem.WithExtension("row", loadErr.Row)
		problem.WithExtension("column", loadErr.Column)
	}
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case CodeValidationFailed, CodeInvalidRequest, CodeInvalidParameter, CodeMissingParameter,
		CodeInvalidJSON, CodeMissingContentType, CodeUnsupportedMediaType, CodePayloadTooLarge:
		problemType = TypeValidation
	case CodeNotFound:
		problemType = TypeNotFound
	case CodeRateLimitExceeded:
		problemType = TypeRateLimit
	case CodeServiceUnavailable:
		problemType = TypeServiceDown
	case CodeWebSocketUpgrade:
		problemType = TypeWebSocketUpgrade
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

// appErrorToProblem converts AppError to ProblemDetails
func appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	status, problemType := http.StatusInternalServerError, TypeInternal
	switch appErr.Type {
	case ErrTypeValidation:
		status, problemType = http.StatusBadRequest, TypeValidation
	case ErrTypeNotFound:
		status, problemType = http.StatusNotFound, TypeNotFound
	case ErrTypeDataset:
		status, problemType = http.StatusServiceUnavailable, TypeDatasetUnavailable
	}

	problem := NewProblemDetails(status, problemType, http.StatusText(status), appErr.Message, r.URL.Path)
	for k, v := range appErr.Context {
		problem.WithExtension(k, v)
	}
	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeValidation,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
