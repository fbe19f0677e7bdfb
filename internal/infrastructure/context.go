package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// TraceIDContextKey carries the request or connection trace ID
	TraceIDContextKey contextKey = "trace_id"
	// SessionIDContextKey carries the dashboard session of a request
	SessionIDContextKey contextKey = "session_id"
)

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID returns the trace ID stored by WithTraceID, or ""
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(TraceIDContextKey).(string)
	return id
}

// EnsureTraceID returns ctx unchanged when it already has a trace ID and
// otherwise attaches a fresh UUID.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, uuid.NewString())
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDContextKey, sessionID)
}

// GetSessionID returns the dashboard session stored by WithSessionID, or ""
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDContextKey).(string)
	return id
}
