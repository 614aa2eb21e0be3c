// Package protocol defines the two closed message vocabularies of the
// websocket connection and their JSON wire encoding. Both directions
// are fixed sets of tagged variants; there is no open-ended message
// shape.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Client -> server message types.
const (
	TypeCreateRoom     = "create_room"
	TypeJoinRoom       = "join_room"
	TypeSelectGame     = "select_game"
	TypeStartGame      = "start_game"
	TypeRealtimeAction = "realtime_action"
)

// Realtime action discriminators.
const (
	ActionFirstPress = "first_press"
	ActionTurnAction = "turn_action"
)

// ClientMsg is one variant of the client vocabulary.
type ClientMsg interface{ clientMsg() }

type CreateRoom struct {
	DisplayName string `json:"display_name"`
}

type JoinRoom struct {
	RoomID      string `json:"room_id"`
	DisplayName string `json:"display_name"`
}

type SelectGame struct {
	GameID string `json:"game_id"`
}

type StartGame struct{}

// RealtimeAction wraps one of the realtime sub-variants. The sub-tag
// and its fields sit flattened in the same JSON object, e.g.
// {"type":"realtime_action","action":"turn_action","action_type":"answer","data":{}}.
type RealtimeAction struct {
	Action ClientAction
}

func (CreateRoom) clientMsg()     {}
func (JoinRoom) clientMsg()       {}
func (SelectGame) clientMsg()     {}
func (StartGame) clientMsg()      {}
func (RealtimeAction) clientMsg() {}

// ClientAction is one variant of the realtime action vocabulary.
type ClientAction interface{ clientAction() }

type FirstPress struct{}

type TurnAction struct {
	ActionType string          `json:"action_type"`
	Data       json.RawMessage `json:"data"`
}

func (FirstPress) clientAction() {}
func (TurnAction) clientAction() {}

// DecodeClient parses one inbound frame against the client vocabulary.
// Any malformed or unrecognized input is a decode error; the caller
// replies with an error message and keeps the connection open.
func DecodeClient(data []byte) (ClientMsg, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode client message: %w", err)
	}

	switch env.Type {
	case TypeCreateRoom:
		var m CreateRoom
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return m, nil
	case TypeJoinRoom:
		var m JoinRoom
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return m, nil
	case TypeSelectGame:
		var m SelectGame
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return m, nil
	case TypeStartGame:
		return StartGame{}, nil
	case TypeRealtimeAction:
		action, err := decodeClientAction(data)
		if err != nil {
			return nil, err
		}
		return RealtimeAction{Action: action}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}

func decodeClientAction(data []byte) (ClientAction, error) {
	var env struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode realtime action: %w", err)
	}

	switch env.Action {
	case ActionFirstPress:
		return FirstPress{}, nil
	case ActionTurnAction:
		var a TurnAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Action, err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown realtime action %q", env.Action)
	}
}
