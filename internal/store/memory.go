// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used when no Redis address is configured, and in tests.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sessions are copied on Save and Get so callers never share slices.
//   - Entries older than the TTL are invisible to Get and swept on Save.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/game"
)

// ErrNotFound is returned by Get for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for assistant sessions.
// Implementations are backed by memory (this file) or Redis.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex     // guards sessions map
	sessions map[string]entry // keyed by Session.ID
	ttl      time.Duration    // zero or negative keeps sessions forever
	now      func() time.Time
}

type entry struct {
	session *game.Session
	expires time.Time
}

// NewMemoryStore constructs a new in-memory Store. Sessions expire ttl after
// their last Save; ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) Store {
	return &memory{sessions: make(map[string]entry), ttl: ttl, now: time.Now}
}

func (m *memory) expired(e entry, now time.Time) bool {
	return m.ttl > 0 && !now.Before(e.expires)
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, id)
		}
	}
	m.sessions[s.ID] = entry{session: clone(s), expires: now.Add(m.ttl)}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok && !m.expired(e, m.now()) {
		return clone(e.session), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func clone(s *game.Session) *game.Session {
	c := *s
	c.History = append(c.History[:0:0], s.History...)
	c.Results = append(c.Results[:0:0], s.Results...)
	return &c
}
