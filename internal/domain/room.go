package domain

import (
	"fmt"
	"math/rand"
	"time"
)

type RoomID string

// RoomState is the coarse lifecycle of a room.
type RoomState string

const (
	RoomWaiting  RoomState = "Waiting"
	RoomInGame   RoomState = "InGame"
	RoomFinished RoomState = "Finished"
)

type RoomSettings struct {
	MaxPlayers         int    `json:"max_players"`
	RoomLiberationTime int    `json:"room_liberation_time"` // minutes; modeled, not enforced
	ProgressionRule    string `json:"progression_rule"`
}

func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		MaxPlayers:         8,
		RoomLiberationTime: 15,
		ProgressionRule:    "solo",
	}
}

// Room is a bounded multiplayer session. The player list keeps join
// order; host_id always references one of the players after any
// completed mutation. All mutation happens under the registry's
// per-room exclusive access.
type Room struct {
	ID            RoomID        `json:"id"`
	HostID        PlayerID      `json:"host_id"`
	Players       []Player      `json:"players"`
	Settings      RoomSettings  `json:"settings"`
	SelectedGame  *GameInfo     `json:"selected_game"`
	State         RoomState     `json:"state"`
	RealtimeState RealtimeState `json:"realtime_state"`
	CreatedAt     time.Time     `json:"created_at"`
	LastActivity  time.Time     `json:"last_activity"`
}

// NewRoom builds a Waiting room with the creator as host and sole
// player. The id is provisional until the registry inserts the room;
// the insert path regenerates it on collision.
func NewRoom(host Player, settings RoomSettings) *Room {
	now := time.Now().UTC()
	return &Room{
		ID:            NewRoomID(),
		HostID:        host.ID,
		Players:       []Player{host},
		Settings:      settings,
		State:         RoomWaiting,
		RealtimeState: NewRealtimeState(),
		CreatedAt:     now,
		LastActivity:  now,
	}
}

// NewRoomID draws a uniform random 5-digit decimal id. The space is
// only 90000 values, so callers that need uniqueness must retry on
// collision.
func NewRoomID() RoomID {
	return RoomID(fmt.Sprintf("%d", rand.Intn(90000)+10000))
}

// PlayerByID returns the member with the given id, if present.
func (r *Room) PlayerByID(id PlayerID) (Player, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// AddPlayer appends to the end of the join-ordered list and touches
// last_activity.
func (r *Room) AddPlayer(p Player) {
	r.Players = append(r.Players, p)
	r.LastActivity = time.Now().UTC()
}

// RemovePlayer drops the player and reports whether it was present.
func (r *Room) RemovePlayer(id PlayerID) bool {
	for i, p := range r.Players {
		if p.ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			r.LastActivity = time.Now().UTC()
			return true
		}
	}
	return false
}

// Snapshot returns an independent copy safe to serialize or hand to a
// detached task after the room's lock is released. The pending action
// queue is process-local and deliberately left behind.
func (r *Room) Snapshot() Room {
	snap := *r
	snap.Players = make([]Player, len(r.Players))
	copy(snap.Players, r.Players)
	snap.RealtimeState.TurnOrder = make([]PlayerID, len(r.RealtimeState.TurnOrder))
	copy(snap.RealtimeState.TurnOrder, r.RealtimeState.TurnOrder)
	snap.RealtimeState.ActiveTimers = make(map[string]Timer, len(r.RealtimeState.ActiveTimers))
	for k, v := range r.RealtimeState.ActiveTimers {
		snap.RealtimeState.ActiveTimers[k] = v
	}
	snap.RealtimeState.PendingActions = nil
	if r.SelectedGame != nil {
		g := *r.SelectedGame
		snap.SelectedGame = &g
	}
	if r.RealtimeState.CurrentTurn != nil {
		t := *r.RealtimeState.CurrentTurn
		snap.RealtimeState.CurrentTurn = &t
	}
	if r.RealtimeState.FirstPressWinner != nil {
		w := *r.RealtimeState.FirstPressWinner
		snap.RealtimeState.FirstPressWinner = &w
	}
	return snap
}
