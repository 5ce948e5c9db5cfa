// internal/store/memory.go
//
// In-memory table of live matches.
//
// Characteristics:
//   - Stores *arcade.Match keyed by ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Delete closes the match, stopping its loop and timers.
//   - State is lost when the process restarts; finished scores live in scores.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/lacey1998/FishMIner-Game/internal/arcade"
)

var ErrNotFound = errors.New("match not found")

// Store holds live matches.
type Store interface {
	// Save adds or replaces a match.
	Save(ctx context.Context, m *arcade.Match) error

	// Get returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*arcade.Match, error)

	// Delete closes and removes a match.
	Delete(ctx context.Context, id string) error

	// List returns matches oldest first.
	List(ctx context.Context) ([]*arcade.Match, error)

	// Close closes every match.
	Close()
}

type memory struct {
	mu      sync.RWMutex
	matches map[string]*arcade.Match
}

func NewMemoryStore() Store {
	return &memory{matches: make(map[string]*arcade.Match)}
}

func (m *memory) Save(ctx context.Context, mt *arcade.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.matches[mt.ID]; ok && old != mt {
		old.Close()
	}
	m.matches[mt.ID] = mt
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*arcade.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mt, ok := m.matches[id]; ok {
		return mt, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	mt, ok := m.matches[id]
	delete(m.matches, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	mt.Close()
	return nil
}

func (m *memory) List(ctx context.Context) ([]*arcade.Match, error) {
	m.mu.RLock()
	out := make([]*arcade.Match, 0, len(m.matches))
	for _, mt := range m.matches {
		out = append(out, mt)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memory) Close() {
	m.mu.Lock()
	all := m.matches
	m.matches = make(map[string]*arcade.Match)
	m.mu.Unlock()
	for _, mt := range all {
		mt.Close()
	}
}
