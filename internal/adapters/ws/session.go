package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/partyhub/gamecenter/internal/core"
	"github.com/partyhub/gamecenter/internal/domain"
	"github.com/partyhub/gamecenter/internal/protocol"
)

// session is the per-connection state machine. It starts unjoined,
// becomes joined to exactly one room, and closes on the first
// transport failure. The loop is the connection's only writer; a
// separate reader goroutine feeds inbound frames through a channel so
// the loop can also await the room's broadcast hub.
type session struct {
	ctl      *Controller
	conn     *websocket.Conn
	playerID domain.PlayerID

	roomID domain.RoomID
	hub    *core.Hub
	sub    *core.Subscription
}

func newSession(ctl *Controller, conn *websocket.Conn) *session {
	return &session{
		ctl:      ctl,
		conn:     conn,
		playerID: domain.NewPlayerID(),
	}
}

func (s *session) run(ctx context.Context) {
	log.Info().Str("module", "adapters.ws").Str("player", string(s.playerID)).Msg("new connection")

	if s.ctl.Cfg.ReadLimit > 0 {
		s.conn.SetReadLimit(s.ctl.Cfg.ReadLimit)
	}

	inbound := make(chan []byte)
	done := make(chan struct{})
	defer close(done)
	go s.readPump(inbound, done)

	defer func() {
		s.disconnect(ctx)
		_ = s.conn.Close()
		log.Info().Str("module", "adapters.ws").Str("player", string(s.playerID)).Msg("connection closed")
	}()

	for {
		// A client's own request must be answered before any broadcast
		// triggered by someone else is forwarded, so the reply the
		// client reads always reflects its own action first.
		select {
		case data, ok := <-inbound:
			if !ok {
				return
			}
			if !s.handleFrame(ctx, data) {
				return
			}
			continue
		default:
		}

		var hubCh <-chan core.Frame
		if s.sub != nil {
			hubCh = s.sub.C()
		}

		select {
		case <-ctx.Done():
			return
		case data, ok := <-inbound:
			if !ok {
				return
			}
			if !s.handleFrame(ctx, data) {
				return
			}
		case frame, ok := <-hubCh:
			if !ok {
				// Room was torn down underneath us. Drop back to the
				// unjoined state; the connection itself stays usable.
				s.roomID, s.hub, s.sub = "", nil, nil
				continue
			}
			if s.sub.TakeLagged() {
				// The received frame and anything still buffered
				// predate the overflow; delivering them around the
				// snapshot would regress the client below it.
				s.sub.Drain()
				if !s.resync() {
					return
				}
				continue
			}
			if err := s.write(frame); err != nil {
				return
			}
		}
	}
}

// readPump is the sole reader of the websocket. It hands frames to the
// session loop and closes the channel on the first read failure or
// client close.
func (s *session) readPump(inbound chan<- []byte, done <-chan struct{}) {
	defer close(inbound)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("module", "adapters.ws").Str("player", string(s.playerID)).Msg("read loop ended")
			return
		}
		select {
		case inbound <- data:
		case <-done:
			return
		}
	}
}

// handleFrame decodes and dispatches one inbound request. The direct
// result is always written back on this connection, in addition to any
// hub publish the operation performed; the acting client seeing the
// update twice is accepted because every reply stays self-sufficient.
// Returns false when the connection is no longer writable.
func (s *session) handleFrame(ctx context.Context, data []byte) bool {
	msg, err := protocol.DecodeClient(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "adapters.ws").Str("player", string(s.playerID)).Msg("bad client frame")
		return s.write(protocol.EncodeError(err.Error())) == nil
	}

	reply := s.dispatch(ctx, msg)
	if reply == nil {
		return true
	}
	return s.write(reply) == nil
}

// resync pushes a fresh full snapshot to a subscriber that fell behind
// the hub backlog, so convergence never depends on the dropped deltas.
func (s *session) resync() bool {
	snap, ok := s.ctl.Registry.Get(s.roomID)
	if !ok {
		return true
	}
	frame, err := protocol.EncodeRoomUpdate(snap)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("encode resync snapshot")
		return true
	}
	log.Warn().Str("module", "adapters.ws").
		Str("player", string(s.playerID)).
		Str("room", string(s.roomID)).
		Msg("subscriber lagged, forcing full resync")
	return s.write(frame) == nil
}

func (s *session) write(frame []byte) error {
	deadline := s.ctl.Cfg.WriteTimeout
	if deadline <= 0 {
		deadline = 5 * time.Second
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(deadline)); err != nil {
		return err
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		log.Debug().Err(err).Str("module", "adapters.ws").Str("player", string(s.playerID)).Msg("write failed")
		return err
	}
	return nil
}

// disconnect runs the teardown procedure while still joined: remove
// the player, migrate the host to the earliest remaining joiner,
// publish the final snapshot, and delete the room once empty. This
// path performs no external I/O.
func (s *session) disconnect(ctx context.Context) {
	if s.roomID == "" {
		return
	}
	roomID := s.roomID

	empty := false
	err := s.ctl.Registry.WithRoom(roomID, func(room *domain.Room, hub *core.Hub) error {
		room.RemovePlayer(s.playerID)

		if room.HostID == s.playerID && len(room.Players) > 0 {
			room.HostID = room.Players[0].ID
			log.Info().Str("module", "adapters.ws").
				Str("room", string(roomID)).
				Str("host", string(room.HostID)).
				Msg("host migrated")
		}
		empty = len(room.Players) == 0

		frame, err := protocol.EncodeRoomUpdate(room.Snapshot())
		if err != nil {
			return err
		}
		hub.Publish(frame)
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("module", "adapters.ws").Str("room", string(roomID)).Msg("disconnect cleanup")
	}

	// Removal happens after the publish so a subscriber mid-receive
	// still sees the final snapshot.
	if empty {
		s.ctl.Registry.RemoveIfEmpty(roomID)
	}

	if s.hub != nil && s.sub != nil {
		s.hub.Unsubscribe(s.sub)
	}
	s.roomID, s.hub, s.sub = "", nil, nil
}
