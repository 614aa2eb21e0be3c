package domain

import (
	"encoding/json"
	"time"
)

// Timer is stored room state only; nothing in the engine ticks it.
// started_at is process-local and never crosses the wire.
type Timer struct {
	Duration   time.Duration
	StartedAt  *time.Time
	TimerType  string
	AutoAction *string
}

type timerWire struct {
	Duration   float64 `json:"duration"`
	TimerType  string  `json:"timer_type"`
	AutoAction *string `json:"auto_action"`
}

// MarshalJSON writes the duration as fractional seconds.
func (t Timer) MarshalJSON() ([]byte, error) {
	return json.Marshal(timerWire{
		Duration:   t.Duration.Seconds(),
		TimerType:  t.TimerType,
		AutoAction: t.AutoAction,
	})
}

func (t *Timer) UnmarshalJSON(data []byte) error {
	var w timerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.Duration = time.Duration(w.Duration * float64(time.Second))
	t.TimerType = w.TimerType
	t.AutoAction = w.AutoAction
	return nil
}

// QueuedAction sits in a room's pending_actions queue. Process-local,
// never serialized to clients.
type QueuedAction struct {
	PlayerID   PlayerID
	ActionType string
	Data       json.RawMessage
	QueuedAt   time.Time
}

// RealtimeState is the realtime sub-state of a room: buzzer winner,
// turn tracking and any timers the game service has parked on the room.
type RealtimeState struct {
	CurrentTurn      *PlayerID        `json:"current_turn"`
	TurnOrder        []PlayerID       `json:"turn_order"`
	ActiveTimers     map[string]Timer `json:"active_timers"`
	FirstPressWinner *PlayerID        `json:"first_press_winner"`
	PendingActions   []QueuedAction   `json:"-"`
	GamePhase        string           `json:"game_phase"`
}

func NewRealtimeState() RealtimeState {
	return RealtimeState{
		TurnOrder:    []PlayerID{},
		ActiveTimers: make(map[string]Timer),
		GamePhase:    "lobby",
	}
}
