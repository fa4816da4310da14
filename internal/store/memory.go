// internal/store/memory.go
//
// In-memory implementation of the room Store interface, the only
// persistence layer the game needs: rooms live for the length of the
// process and are evicted by the idle reaper.
//
// Characteristics:
//   - Stores *game.Room objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Missing ids surface as game.KindRoomNotFound errors.
//   - ReapIdle removes rooms whose last activity is older than the
//     configured threshold; Run drives it on a ticker.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zyreoo/queens-server-host/internal/game"
)

// Store defines the keyed room store with an explicit lifecycle.
// Implementations may be backed by memory (this package) or anything
// that can hold a live *game.Room per id.
type Store interface {
	// Create registers a new room under its id.
	Create(ctx context.Context, r *game.Room) error

	// Get retrieves a room by id.
	Get(ctx context.Context, id string) (*game.Room, error)

	// Delete removes a room outright.
	Delete(ctx context.Context, id string) error

	// List returns all live rooms.
	List(ctx context.Context) ([]*game.Room, error)
}

// Memory is the map-based Store implementation plus the idle reaper.
type Memory struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room
	now   func() time.Time // swapped out in tests
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{rooms: make(map[string]*game.Room), now: time.Now}
}

// Create registers the room in the map.
func (m *Memory) Create(ctx context.Context, r *game.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[r.ID()] = r
	return nil
}

// Get looks up a room by id.
func (m *Memory) Get(ctx context.Context, id string) (*game.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, game.NewError(game.KindRoomNotFound, "room %s not found", id)
}

// Delete removes a room; deleting an unknown id is a no-op.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
	return nil
}

// List returns every live room.
func (m *Memory) List(ctx context.Context) ([]*game.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*game.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out, nil
}

// ReapIdle removes every room idle for longer than maxIdle and returns
// the removed ids. There is no notification and no forfeit scoring; an
// idle room is simply gone.
func (m *Memory) ReapIdle(maxIdle time.Duration) []string {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	var reaped []string
	for id, r := range m.rooms {
		if now.Sub(r.LastActivity()) > maxIdle {
			delete(m.rooms, id)
			reaped = append(reaped, id)
		}
	}
	return reaped
}

// Run sweeps idle rooms on the given interval until ctx is cancelled.
func (m *Memory) Run(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if reaped := m.ReapIdle(maxIdle); len(reaped) > 0 {
				log.Info().Int("rooms", len(reaped)).Msg("reaped idle rooms")
			}
		}
	}
}
