package services

import (
	"context"
	"fmt"
	"log/slog"

	"ridepulse/internal/dashboard"
	"ridepulse/internal/infrastructure"
	"ridepulse/internal/session"
	"ridepulse/pkg/contracts/domain"
)

// CreateSession starts a session on the default view
func (s *DashboardService) CreateSession(ctx context.Context) (session.ViewState, error) {
	before := s.sessions.Len()
	state, err := s.sessions.Create()
	if err != nil {
		s.logger.WarnContext(ctx, "session rejected", slog.String("error", err.Error()))
		return session.ViewState{}, err
	}
	infrastructure.RecordSessionChange(ctx, s.metrics, int64(s.sessions.Len()-before))

	s.logger.InfoContext(infrastructure.WithSessionID(ctx, state.ID), "session started",
		slog.String("view", string(state.ActiveView)))
	return state, nil
}

// Session returns the current state of session id
func (s *DashboardService) Session(ctx context.Context, id string) (session.ViewState, error) {
	return s.sessions.Get(id)
}

// EndSession deletes session id
func (s *DashboardService) EndSession(ctx context.Context, id string) error {
	before := s.sessions.Len()
	if err := s.sessions.Delete(id); err != nil {
		return err
	}
	infrastructure.RecordSessionChange(ctx, s.metrics, int64(s.sessions.Len()-before))

	s.logger.InfoContext(infrastructure.WithSessionID(ctx, id), "session ended")
	return nil
}

// SelectView switches the active view of session id. The filters of the
// newly active view are whatever was last set for it, or its defaults.
func (s *DashboardService) SelectView(ctx context.Context, id, name string) (session.ViewState, error) {
	return s.sessions.Update(id, func(state *session.ViewState) error {
		return state.SelectView(name)
	})
}

// SetFilters stores f for view in session id. An empty view means the
// active view. Filters the view does not accept are rejected and leave the
// session unchanged.
func (s *DashboardService) SetFilters(ctx context.Context, id string, view domain.View, f domain.Filters) (session.ViewState, error) {
	bounds := s.bounds()
	return s.sessions.Update(id, func(state *session.ViewState) error {
		target := view
		if target == "" {
			target = state.ActiveView
		}
		if _, err := dashboard.Resolve(target, f, bounds); err != nil {
			return err
		}
		return state.SetFilters(target, f)
	})
}

// ResetFilters restores the defaults of the active view of session id
func (s *DashboardService) ResetFilters(ctx context.Context, id string) (session.ViewState, error) {
	return s.sessions.Update(id, func(state *session.ViewState) error {
		state.ResetFilters(state.ActiveView)
		return nil
	})
}

// RenderSession renders the active view of session id with its stored filters
func (s *DashboardService) RenderSession(ctx context.Context, id string) (*domain.ViewModel, error) {
	state, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	vm, err := s.Render(infrastructure.WithSessionID(ctx, id), SessionRenderState(state))
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return vm, nil
}

// SessionRenderState is the render input for the active view of state
func SessionRenderState(state session.ViewState) dashboard.RenderState {
	return dashboard.RenderState{
		View:    state.ActiveView,
		Filters: state.FiltersFor(state.ActiveView),
	}
}

// bounds returns the active dataset's date bounds, zero when none is loaded
func (s *DashboardService) bounds() domain.DateRange {
	ds, err := s.current()
	if err != nil {
		return domain.DateRange{}
	}
	return ds.Table().Bounds()
}
