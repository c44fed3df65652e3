// internal/store/memory.go
//
// Process-local registry of hosted games.
// Boards never leave memory: the store maps game IDs to live *game.Game
// values and remembers when each one was last looked up, so idle boards
// can be evicted.
//
// Characteristics:
//   - Concurrency-safe via RWMutex; Get takes the write lock to stamp
//     the access time.
//   - Per-board access is serialized by game.Game itself.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/minesweeper/internal/game"
)

// ErrNotFound is returned by Get for unknown or evicted ids.
var ErrNotFound = errors.New("game not found")

// Store holds the games a shell is serving.
type Store interface {
	// Save adds or replaces a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID and marks it as recently used.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Evict drops every game not used within idle and returns how many
	// were dropped.
	Evict(ctx context.Context, idle time.Duration) int

	// Len reports how many games are held.
	Len() int
}

type entry struct {
	game *game.Game
	seen time.Time
}

type memory struct {
	mu      sync.RWMutex
	entries map[string]*entry // keyed by Game.ID
	now     func() time.Time
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store { return newMemory(time.Now) }

func newMemory(now func() time.Time) *memory {
	return &memory{entries: make(map[string]*entry), now: now}
}

func (m *memory) Save(_ context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[g.ID] = &entry{game: g, seen: m.now()}
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.seen = m.now()
	return e.game, nil
}

func (m *memory) Evict(_ context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.entries {
		if e.seen.Before(cutoff) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
