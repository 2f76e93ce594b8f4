// Package registry implements the Session Registry: a
// process-wide directory of live sessions keyed by an opaque id, with a
// configurable concurrency cap and grace-period removal. Grounded in
// internal/server/game_manager.go's GameManager (directory
// pattern: a single mutex held only for map operations, never while a
// game advances) generalized from a one-game-at-a-time model
// to many concurrent sessions.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/session"
)

// Config configures a Registry.
type Config struct {
	// MaxSessions bounds concurrently live sessions.
	MaxSessions int
	// GraceDuration is how long a session stays in the directory after
	// end() transitions it terminal, so a final snapshot read still
	// succeeds.
	GraceDuration time.Duration
}

const defaultGraceDuration = 60 * time.Second

// Registry is the process-wide session directory.
type Registry struct {
	logger zerolog.Logger
	cfg    Config
	sem    *semaphore.Weighted

	mu       sync.Mutex
	sessions map[string]*session.Session
}

// New constructs an empty registry.
func New(cfg Config, logger zerolog.Logger) *Registry {
	if cfg.GraceDuration == 0 {
		cfg.GraceDuration = defaultGraceDuration
	}
	max := cfg.MaxSessions
	if max <= 0 {
		max = 1
	}
	return &Registry{
		logger:   logger.With().Str("component", "registry").Logger(),
		cfg:      cfg,
		sem:      semaphore.NewWeighted(int64(max)),
		sessions: make(map[string]*session.Session),
	}
}

// Create is create_game: assigns a fresh opaque 128-bit
// game_id and constructs a session, rejecting with Overloaded beyond the
// concurrency cap. The semaphore is acquired for the session's entire
// lifetime and released only once its grace period elapses.
func (r *Registry) Create(cfg session.Config) (*session.Session, error) {
	if !r.sem.TryAcquire(1) {
		return nil, poker.ErrOverloaded
	}

	id := uuid.NewString()
	s, err := session.Create(id, cfg, r.logger)
	if err != nil {
		r.sem.Release(1)
		return nil, err
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Info().Str("game_id", id).Msg("session created")
	return s, nil
}

// Get is get_state's lookup: O(1) directory lookup.
func (r *Registry) Get(gameID string) (*session.Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[gameID]
	r.mu.Unlock()
	if !ok {
		return nil, poker.ErrGameNotFound
	}
	return s, nil
}

// End is end_game: transitions the session terminal and
// schedules its removal from the directory after the grace period, so a
// final snapshot/get_state still resolves for a while after end().
func (r *Registry) End(gameID string) ([]session.RankingEntry, error) {
	s, err := r.Get(gameID)
	if err != nil {
		return nil, err
	}
	rankings := s.End()
	r.scheduleRemoval(gameID)
	return rankings, nil
}

func (r *Registry) scheduleRemoval(gameID string) {
	time.AfterFunc(r.cfg.GraceDuration, func() {
		r.mu.Lock()
		delete(r.sessions, gameID)
		r.mu.Unlock()
		r.sem.Release(1)
		r.logger.Info().Str("game_id", gameID).Msg("session removed from directory")
	})
}

// ListGameIDs returns a snapshot of every live session id (used by
// cmd/tablehost's demo listing; not one of the core session operations itself).
func (r *Registry) ListGameIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	return out
}

// Wait blocks until ctx is done or the registry has spare capacity,
// without reserving it — a best-effort hint for callers that want to back
// off instead of hammering Create when Overloaded (a natural complement
// since the semaphore already exists).
func (r *Registry) Wait(ctx context.Context) error {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("registry wait: %w", err)
	}
	r.sem.Release(1)
	return nil
}
