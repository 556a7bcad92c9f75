// internal/store/memory.go
//
// In-memory registry of live play sessions.
//
//   - Holds *game.Session values keyed by session id.
//   - Concurrency-safe via RWMutex; each Session also guards its own state.
//   - Sessions idle longer than the configured TTL are dropped by Sweep.
//   - State is lost when the process restarts. Credits are not: they live in
//     the ledger, and a lost session only means the board must be replayed.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/keshimasu/internal/game"
)

var ErrNotFound = errors.New("session not found")

// Store keeps play sessions between requests.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get returns the session with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete forgets a session. Missing ids are not an error.
	Delete(ctx context.Context, id string) error
}

type entry struct {
	s        *game.Session
	lastSeen time.Time
}

// Memory is the map-backed Store.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewMemoryStore() *Memory {
	return &Memory{sessions: make(map[string]*entry), now: time.Now}
}

func (m *Memory) Save(_ context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{s: s, lastSeen: m.now()}
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	m.mu.Lock()
	e.lastSeen = m.now()
	m.mu.Unlock()
	return e.s, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions not touched within ttl and returns how many went.
func (m *Memory) Sweep(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Memory) RunSweeper(ctx context.Context, interval, ttl time.Duration, onSweep func(n int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(ttl); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
