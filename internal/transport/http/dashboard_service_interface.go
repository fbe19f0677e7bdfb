package http

import (
	"context"
	"io"

	"ridepulse/internal/dashboard"
	"ridepulse/internal/session"
	"ridepulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations used by the handlers
type DashboardServiceInterface interface {
	DatasetInfo(ctx context.Context) (domain.DatasetInfo, error)
	Views(ctx context.Context) ([]domain.ViewDescriptor, error)
	Render(ctx context.Context, state dashboard.RenderState) (*domain.ViewModel, error)
	ETag(state dashboard.RenderState) (string, error)
	Export(ctx context.Context, state dashboard.RenderState, format string, out io.Writer) (string, error)
	ExportWorkbook(ctx context.Context, out io.Writer) error
}

// SessionServiceInterface defines the session operations used by the handlers
type SessionServiceInterface interface {
	CreateSession(ctx context.Context) (session.ViewState, error)
	Session(ctx context.Context, id string) (session.ViewState, error)
	EndSession(ctx context.Context, id string) error
	SelectView(ctx context.Context, id, name string) (session.ViewState, error)
	SetFilters(ctx context.Context, id string, view domain.View, f domain.Filters) (session.ViewState, error)
	ResetFilters(ctx context.Context, id string) (session.ViewState, error)
	RenderSession(ctx context.Context, id string) (*domain.ViewModel, error)
}
