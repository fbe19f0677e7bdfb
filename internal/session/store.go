package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StoreConfig bounds the store
type StoreConfig struct {
	IdleTimeout time.Duration
	MaxSessions int
}

// Store is an in-memory session registry. Idle sessions are evicted lazily
// on Create and Get; there is no background sweeper.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*ViewState
	cfg      StoreConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore(cfg StoreConfig, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*ViewState),
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "session_store")),
		now:      time.Now,
	}
}

// Create registers a new session on the default view
func (s *Store) Create() (ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		return ViewState{}, fmt.Errorf("%w: limit is %d", ErrTooManySessions, s.cfg.MaxSessions)
	}

	state := NewViewState(uuid.New().String(), now)
	s.sessions[state.ID] = state

	s.logger.Debug("session created",
		slog.String("session_id", state.ID),
		slog.Int("active_sessions", len(s.sessions)))
	return state.Snapshot(), nil
}

// Get returns a copy of the session and marks it as seen
func (s *Store) Get(id string) (ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	state, ok := s.sessions[id]
	if !ok {
		return ViewState{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	state.LastSeen = now
	return state.Snapshot(), nil
}

// Update applies fn to the session under the store lock. The session is left
// unchanged when fn returns an error.
func (s *Store) Update(id string, fn func(*ViewState) error) (ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok || s.expired(state, s.now()) {
		return ViewState{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	working := state.Snapshot()
	if err := fn(&working); err != nil {
		return ViewState{}, err
	}
	working.ID = state.ID
	working.CreatedAt = state.CreatedAt
	working.LastSeen = s.now()
	s.sessions[id] = &working
	return working.Snapshot(), nil
}

// Delete ends a session
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)

	s.logger.Debug("session deleted", slog.String("session_id", id))
	return nil
}

// Len returns the number of sessions currently held
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) expired(state *ViewState, now time.Time) bool {
	return s.cfg.IdleTimeout > 0 && now.Sub(state.LastSeen) > s.cfg.IdleTimeout
}

// evictLocked drops idle sessions; callers hold the write lock
func (s *Store) evictLocked(now time.Time) {
	for id, state := range s.sessions {
		if s.expired(state, now) {
			delete(s.sessions, id)
			s.logger.Debug("session evicted",
				slog.String("session_id", id),
				slog.Duration("idle", now.Sub(state.LastSeen)))
		}
	}
}
