// internal/store/memory.go
//
// In-memory store of per-player rule engines for the HTTP front end.
//
// Characteristics:
//   - Maps player ID → *game.Engine, with the time each entry was last used.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; nothing is persisted.
//   - ErrNotFound is returned for unknown player IDs.
//   - Idle lists entries untouched since a cutoff so callers can Delete them.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robalobadob/wordscramble/internal/game"
)

// ErrNotFound means no engine is stored for the player.
var ErrNotFound = errors.New("store: not found")

// Store holds one engine per player.
type Store interface {
	// Save adds or replaces the engine for id.
	Save(ctx context.Context, id string, e *game.Engine) error

	// Get returns the engine for id or ErrNotFound. A hit counts as use.
	Get(ctx context.Context, id string) (*game.Engine, error)

	// Delete forgets id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Idle returns the ids not saved or fetched since before.
	Idle(before time.Time) []string

	// Len reports how many players are stored.
	Len() int
}

// Option configures the memory store.
type Option func(*memory)

// WithClock replaces time.Now for last-use stamps.
func WithClock(now func() time.Time) Option {
	return func(m *memory) { m.now = now }
}

type entry struct {
	eng      *game.Engine
	lastUsed atomic.Int64 // unix nanos; updated under the read lock
}

type memory struct {
	mu      sync.RWMutex      // guards entries
	entries map[string]*entry // keyed by player ID
	now     func() time.Time
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore(opts ...Option) Store {
	m := &memory{entries: make(map[string]*entry), now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *memory) Save(ctx context.Context, id string, e *game.Engine) error {
	if id == "" || e == nil {
		return errors.New("store: id and engine are required")
	}
	en := &entry{eng: e}
	en.lastUsed.Store(m.now().UnixNano())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = en
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	en, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	en.lastUsed.Store(m.now().UnixNano())
	return en.eng, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *memory) Idle(before time.Time) []string {
	cutoff := before.UnixNano()
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, en := range m.entries {
		if en.lastUsed.Load() < cutoff {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
