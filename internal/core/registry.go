package core

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/partyhub/gamecenter/internal/domain"
)

var ErrRoomNotFound = errors.New("room not found")

// cell pairs a room with its own mutex and hub. Locking a cell gives
// exclusive mutation access to that one room; rooms in other cells
// stay untouched.
type cell struct {
	mu      sync.Mutex
	room    *domain.Room
	hub     *Hub
	removed bool
}

// Registry is the process-wide concurrent room store. The outer map
// lock is only held to look up, insert or delete cells — never across
// a room mutation, so mutators of different rooms run in parallel.
type Registry struct {
	mu         sync.RWMutex
	cells      map[domain.RoomID]*cell
	hubBacklog int
	newID      func() domain.RoomID
}

func NewRegistry(hubBacklog int) *Registry {
	return &Registry{
		cells:      make(map[domain.RoomID]*cell),
		hubBacklog: hubBacklog,
		newID:      domain.NewRoomID,
	}
}

// Insert stores the room and returns its final id. The 5-digit id
// space is small (90000 values), so generation is retried under the
// map lock until a free id is found; the room keeps its provisional id
// only if nothing else holds it.
func (r *Registry) Insert(room *domain.Room) domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()
	for room.ID == "" {
		room.ID = r.newID()
	}
	for {
		if _, taken := r.cells[room.ID]; !taken {
			break
		}
		room.ID = r.newID()
	}
	r.cells[room.ID] = &cell{room: room, hub: NewHub(r.hubBacklog)}
	log.Info().Str("module", "core.registry").Str("room", string(room.ID)).Msg("room inserted")
	return room.ID
}

// Get returns an independent snapshot of the room.
func (r *Registry) Get(id domain.RoomID) (domain.Room, bool) {
	c, ok := r.lookup(id)
	if !ok {
		return domain.Room{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.removed {
		return domain.Room{}, false
	}
	return c.room.Snapshot(), true
}

// WithRoom runs fn with exclusive access to the room and its hub.
// Keep fn minimal: data mutation and message construction only.
// External I/O must happen after WithRoom returns, as a detached task,
// or one slow network call serializes every other operation on the
// room behind it.
func (r *Registry) WithRoom(id domain.RoomID, fn func(room *domain.Room, hub *Hub) error) error {
	c, ok := r.lookup(id)
	if !ok {
		return ErrRoomNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.removed {
		return ErrRoomNotFound
	}
	return fn(c.room, c.hub)
}

// Remove deletes the room and closes its hub, releasing every
// subscriber. A publish completed before Remove is still observable
// by subscribers mid-receive.
func (r *Registry) Remove(id domain.RoomID) {
	r.mu.Lock()
	c, ok := r.cells[id]
	if ok {
		delete(r.cells, id)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	c.mu.Lock()
	c.removed = true
	c.hub.Close()
	c.mu.Unlock()
	log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("room removed")
}

// RemoveIfEmpty deletes the room only when its player list is still
// empty, so a join that slipped in between the emptying mutation and
// the removal keeps the room alive. Reports whether removal happened.
func (r *Registry) RemoveIfEmpty(id domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cells[id]
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.room.Players) > 0 {
		return false
	}
	delete(r.cells, id)
	c.removed = true
	c.hub.Close()
	log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("empty room removed")
	return true
}

// Count reports how many rooms are live.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cells)
}

func (r *Registry) lookup(id domain.RoomID) (*cell, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cells[id]
	return c, ok
}
