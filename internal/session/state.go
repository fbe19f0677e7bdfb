package session

import (
	"fmt"
	"time"

	"ridepulse/pkg/contracts/domain"
)

// ViewState is one user's dashboard state: the active view and the picker
// values of every view visited so far.
type ViewState struct {
	ID         string                         `json:"id"`
	ActiveView domain.View                    `json:"active_view"`
	Filters    map[domain.View]domain.Filters `json:"filters"`
	CreatedAt  time.Time                      `json:"created_at"`
	LastSeen   time.Time                      `json:"last_seen"`
}

// NewViewState returns a state on the default view with no filters set
func NewViewState(id string, now time.Time) *ViewState {
	return &ViewState{
		ID:         id,
		ActiveView: domain.DefaultView,
		Filters:    make(map[domain.View]domain.Filters),
		CreatedAt:  now,
		LastSeen:   now,
	}
}

// SelectView switches the active view. Menu labels such as "VEHICLE TYPE" or
// "OVERALL" are accepted.
func (s *ViewState) SelectView(name string) error {
	v, ok := domain.ParseView(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	s.ActiveView = v
	return nil
}

// SetFilters stores the picker values of view
func (s *ViewState) SetFilters(view domain.View, f domain.Filters) error {
	if !view.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownView, string(view))
	}
	if s.Filters == nil {
		s.Filters = make(map[domain.View]domain.Filters)
	}
	s.Filters[view] = f
	return nil
}

// ResetFilters drops the picker values of view so its defaults apply again
func (s *ViewState) ResetFilters(view domain.View) {
	delete(s.Filters, view)
}

// FiltersFor returns the picker values of view; unset views yield zero Filters
func (s *ViewState) FiltersFor(view domain.View) domain.Filters {
	return s.Filters[view]
}

// Snapshot returns a deep copy safe to use outside the store lock
func (s *ViewState) Snapshot() ViewState {
	out := *s
	out.Filters = make(map[domain.View]domain.Filters, len(s.Filters))
	for v, f := range s.Filters {
		out.Filters[v] = f
	}
	return out
}
