package ws

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/partyhub/gamecenter/internal/core"
	"github.com/partyhub/gamecenter/internal/domain"
	"github.com/partyhub/gamecenter/internal/protocol"
)

var (
	errNotInRoom      = errors.New("Not in a room")
	errNotHostSelect  = errors.New("Only the host can select a game")
	errNotHostStart   = errors.New("Only the host can start the game")
	errGameNotFound   = errors.New("Game not found")
	errNoGameSelected = errors.New("No game selected")
)

// dispatch routes one decoded request and returns the synchronous
// reply frame, or nil when there is nothing to send back.
func (s *session) dispatch(ctx context.Context, msg protocol.ClientMsg) []byte {
	switch m := msg.(type) {
	case protocol.CreateRoom:
		return s.handleCreateRoom(m)
	case protocol.JoinRoom:
		return s.handleJoinRoom(m)
	case protocol.SelectGame:
		return s.handleSelectGame(m)
	case protocol.StartGame:
		return s.handleStartGame(ctx)
	case protocol.RealtimeAction:
		return s.handleRealtimeAction(ctx, m)
	}
	return nil
}

func (s *session) handleCreateRoom(m protocol.CreateRoom) []byte {
	player, err := domain.NewPlayer(s.playerID, m.DisplayName)
	if err != nil {
		return protocol.EncodeError(err.Error())
	}

	room := domain.NewRoom(player, s.ctl.Cfg.RoomSettings())
	roomID := s.ctl.Registry.Insert(room)

	var reply []byte
	err = s.ctl.Registry.WithRoom(roomID, func(room *domain.Room, hub *core.Hub) error {
		frame, err := protocol.EncodeRoomUpdate(room.Snapshot())
		if err != nil {
			return err
		}
		s.rebind(roomID, hub, hub.Subscribe())
		reply = frame
		return nil
	})
	if err != nil {
		return protocol.EncodeError(err.Error())
	}

	log.Info().Str("module", "adapters.ws").
		Str("player", string(s.playerID)).
		Str("room", string(roomID)).
		Msg("room created")
	return reply
}

func (s *session) handleJoinRoom(m protocol.JoinRoom) []byte {
	player, err := domain.NewPlayer(s.playerID, m.DisplayName)
	if err != nil {
		return protocol.EncodeError(err.Error())
	}
	roomID := domain.RoomID(m.RoomID)

	var reply []byte
	err = s.ctl.Registry.WithRoom(roomID, func(room *domain.Room, hub *core.Hub) error {
		room.AddPlayer(player)
		frame, err := protocol.EncodeRoomUpdate(room.Snapshot())
		if err != nil {
			return err
		}
		// Subscribe before publishing so the joiner observes its own
		// join broadcast as well as the synchronous reply.
		s.rebind(roomID, hub, hub.Subscribe())
		hub.Publish(frame)
		reply = frame
		return nil
	})
	if errors.Is(err, core.ErrRoomNotFound) {
		return protocol.EncodeError(fmt.Sprintf("Room '%s' not found", m.RoomID))
	}
	if err != nil {
		return protocol.EncodeError(err.Error())
	}

	log.Info().Str("module", "adapters.ws").
		Str("player", string(s.playerID)).
		Str("room", string(roomID)).
		Msg("joined room")
	return reply
}

func (s *session) handleSelectGame(m protocol.SelectGame) []byte {
	if s.roomID == "" {
		return protocol.EncodeError(errNotInRoom.Error())
	}

	var reply []byte
	err := s.ctl.Registry.WithRoom(s.roomID, func(room *domain.Room, hub *core.Hub) error {
		if room.HostID != s.playerID {
			return errNotHostSelect
		}
		game, ok := s.ctl.Catalog.ByID(m.GameID)
		if !ok {
			return errGameNotFound
		}
		room.SelectedGame = &game

		frame, err := protocol.EncodeRoomUpdate(room.Snapshot())
		if err != nil {
			return err
		}
		hub.Publish(frame)
		reply = frame
		return nil
	})
	if errors.Is(err, core.ErrRoomNotFound) {
		return protocol.EncodeError("Room not found")
	}
	if err != nil {
		return protocol.EncodeError(err.Error())
	}
	return reply
}

func (s *session) handleStartGame(ctx context.Context) []byte {
	if s.roomID == "" {
		return protocol.EncodeError(errNotInRoom.Error())
	}

	var (
		reply []byte
		snap  domain.Room
	)
	err := s.ctl.Registry.WithRoom(s.roomID, func(room *domain.Room, hub *core.Hub) error {
		if room.HostID != s.playerID {
			return errNotHostStart
		}
		if room.SelectedGame == nil {
			return errNoGameSelected
		}
		room.State = domain.RoomInGame
		snap = room.Snapshot()

		frame, err := protocol.EncodeRoomUpdate(snap)
		if err != nil {
			return err
		}
		hub.Publish(frame)
		reply = frame
		return nil
	})
	if errors.Is(err, core.ErrRoomNotFound) {
		return protocol.EncodeError("Room not found")
	}
	if err != nil {
		return protocol.EncodeError(err.Error())
	}

	// The init notification runs detached, outside the room's lock;
	// a slow game service must not stall other players' operations.
	go s.ctl.Games.Init(ctx, snap.SelectedGame.APIEndpoint, snap)

	log.Info().Str("module", "adapters.ws").
		Str("room", string(s.roomID)).
		Str("game", snap.SelectedGame.ID).
		Msg("game started")
	return reply
}

func (s *session) handleRealtimeAction(ctx context.Context, m protocol.RealtimeAction) []byte {
	if s.roomID == "" {
		return protocol.EncodeError(errNotInRoom.Error())
	}

	var (
		reply  []byte
		effect *core.FirstPressEffect
	)
	err := s.ctl.Registry.WithRoom(s.roomID, func(room *domain.Room, hub *core.Hub) error {
		applied, eff := core.ProcessAction(room, m.Action, s.playerID)
		effect = eff
		if !applied {
			// Ignored race: dropped silently, nothing to replicate.
			return nil
		}

		frame, err := protocol.EncodeRoomUpdate(room.Snapshot())
		if err != nil {
			return err
		}
		hub.Publish(frame)
		reply = frame
		return nil
	})
	if errors.Is(err, core.ErrRoomNotFound) {
		return protocol.EncodeError("Room not found")
	}
	if err != nil {
		return protocol.EncodeError(err.Error())
	}

	if effect != nil {
		go s.ctl.Games.FirstPress(ctx, effect.Endpoint, effect.RoomID, effect.Winner)
	}
	return reply
}

// rebind swaps the session onto a new room subscription, detaching the
// previous one if any.
func (s *session) rebind(roomID domain.RoomID, hub *core.Hub, sub *core.Subscription) {
	if s.hub != nil && s.sub != nil {
		s.hub.Unsubscribe(s.sub)
	}
	s.roomID, s.hub, s.sub = roomID, hub, sub
}
