// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxDisplayNameLen = 36

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
)

type PlayerID string

// Player is the per-connection identity inside a room. The id is
// assigned once when the connection is established and never reused.
type Player struct {
	ID          PlayerID `json:"id"`
	DisplayName string   `json:"display_name"`
}

// NewPlayerID mints a fresh opaque session identity.
func NewPlayerID() PlayerID {
	return PlayerID(uuid.NewString())
}

// NewPlayer is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewPlayer(id PlayerID, displayName string) (Player, error) {
	if len(displayName) == 0 {
		return Player{}, ErrDisplayNameEmpty
	}
	if len(displayName) > MaxDisplayNameLen {
		return Player{}, ErrDisplayNameTooLong
	}
	return Player{ID: id, DisplayName: displayName}, nil
}
