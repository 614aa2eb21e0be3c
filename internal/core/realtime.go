package core

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/partyhub/gamecenter/internal/domain"
	"github.com/partyhub/gamecenter/internal/protocol"
)

// FirstPressEffect describes the detached notification owed to the
// selected game service after a buzzer win. It is returned to the
// caller so the HTTP call happens after the room's lock is released,
// never inside it.
type FirstPressEffect struct {
	Endpoint string
	RoomID   domain.RoomID
	Winner   domain.PlayerID
}

// ProcessAction resolves one realtime action against the room's
// realtime sub-state. It must be called under the registry's exclusive
// access for this room; that lock is what makes the first accepted
// buzzer press the only one.
//
// Rejected actions (buzzer after the winner is decided, turn actions
// from the wrong player) are logged and dropped: no state change, no
// reply, no publish, so race losers are not flooded with error noise.
// The returned flag tells the caller whether anything was accepted and
// is therefore worth replicating.
func ProcessAction(room *domain.Room, action protocol.ClientAction, playerID domain.PlayerID) (bool, *FirstPressEffect) {
	switch a := action.(type) {
	case protocol.FirstPress:
		if room.RealtimeState.FirstPressWinner != nil {
			log.Warn().Str("module", "core.realtime").
				Str("room", string(room.ID)).
				Str("player", string(playerID)).
				Msg("first press ignored, winner already decided")
			return false, nil
		}
		winner := playerID
		room.RealtimeState.FirstPressWinner = &winner
		room.LastActivity = time.Now().UTC()
		log.Info().Str("module", "core.realtime").
			Str("room", string(room.ID)).
			Str("winner", string(winner)).
			Msg("first press accepted")

		if room.SelectedGame == nil {
			log.Debug().Str("module", "core.realtime").
				Str("room", string(room.ID)).
				Msg("no game selected, skipping winner notification")
			return true, nil
		}
		return true, &FirstPressEffect{
			Endpoint: room.SelectedGame.APIEndpoint,
			RoomID:   room.ID,
			Winner:   winner,
		}

	case protocol.TurnAction:
		if room.RealtimeState.CurrentTurn == nil || *room.RealtimeState.CurrentTurn != playerID {
			log.Warn().Str("module", "core.realtime").
				Str("room", string(room.ID)).
				Str("player", string(playerID)).
				Str("action_type", a.ActionType).
				Msg("turn action from non-turn player ignored")
			return false, nil
		}
		room.RealtimeState.PendingActions = append(room.RealtimeState.PendingActions, domain.QueuedAction{
			PlayerID:   playerID,
			ActionType: a.ActionType,
			Data:       a.Data,
			QueuedAt:   time.Now().UTC(),
		})
		room.LastActivity = time.Now().UTC()
		log.Info().Str("module", "core.realtime").
			Str("room", string(room.ID)).
			Str("player", string(playerID)).
			Str("action_type", a.ActionType).
			Msg("turn action accepted")
		// Forwarding the payload to the game service is an extension
		// point; the queue keeps accepted actions in order until then.
		return true, nil
	}
	return false, nil
}
