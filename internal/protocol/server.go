package protocol

import (
	"encoding/json"

	"github.com/partyhub/gamecenter/internal/domain"
)

// Server -> client message types.
const (
	TypeRoomUpdate     = "room_update"
	TypeGameState      = "game_state"
	TypeBroadcastEvent = "broadcast_event"
	TypeError          = "error"
)

type RoomUpdate struct {
	Type string      `json:"type"`
	Room domain.Room `json:"room"`
}

type GameState struct {
	Type  string          `json:"type"`
	Phase string          `json:"phase"`
	Data  json.RawMessage `json:"data"`
}

type BroadcastEvent struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// EncodeRoomUpdate serializes a full room snapshot. Every reply built
// from it is self-sufficient; clients never need to stitch deltas.
func EncodeRoomUpdate(room domain.Room) ([]byte, error) {
	return json.Marshal(RoomUpdate{Type: TypeRoomUpdate, Room: room})
}

func EncodeGameState(phase string, data json.RawMessage) ([]byte, error) {
	return json.Marshal(GameState{Type: TypeGameState, Phase: phase, Data: data})
}

func EncodeBroadcastEvent(event string, data json.RawMessage) ([]byte, error) {
	return json.Marshal(BroadcastEvent{Type: TypeBroadcastEvent, Event: event, Data: data})
}

// EncodeError never fails.
func EncodeError(message string) []byte {
	b, err := json.Marshal(ErrorMsg{Type: TypeError, Message: message})
	if err != nil {
		return []byte(`{"type":"error","message":"internal error"}`)
	}
	return b
}
