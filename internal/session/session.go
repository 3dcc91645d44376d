// Package session keys running engagements to opaque session IDs so the
// single-threaded simulation core can be hosted behind a concurrent
// service. Each session owns exactly one scenario and serializes all
// access to it; sessions never share coordinator state.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyshield-sim/skyshield/pkg/config"
	"github.com/skyshield-sim/skyshield/pkg/engagement"
)

var (
	// ErrInvalidSession is returned for unknown or expired session IDs.
	ErrInvalidSession = errors.New("session: invalid session id")
)

// Session binds one scenario run to an opaque ID. All mutating calls go
// through the session mutex so the scenario is never stepped
// concurrently.
type Session struct {
	ID        string
	CreatedAt time.Time
	Scenario  string

	mu  sync.Mutex
	run *engagement.Scenario
}

// Advance steps the engagement once and returns the resulting snapshot.
func (s *Session) Advance() engagement.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run.Advance()
	return s.run.Snapshot()
}

// Snapshot returns the current state without stepping.
func (s *Session) Snapshot() engagement.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run.Snapshot()
}

// Result returns the engagement outcome.
func (s *Session) Result() engagement.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run.Result()
}

// Complete reports whether the engagement has ended.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run.Complete()
}

// Registry is a concurrency-safe map of live sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Create builds a scenario from the definition and registers it under a
// fresh session ID.
func (r *Registry) Create(sc config.ScenarioConfig) (*Session, error) {
	run, err := sc.Build()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Scenario:  sc.Name,
		run:       run,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s, nil
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrInvalidSession
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// List returns all live sessions.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
