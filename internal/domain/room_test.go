package domain_test

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyhub/gamecenter/internal/domain"
)

func newHost(t *testing.T, name string) domain.Player {
	t.Helper()
	p, err := domain.NewPlayer(domain.NewPlayerID(), name)
	require.NoError(t, err)
	return p
}

func TestNewRoom(t *testing.T) {
	host := newHost(t, "Alice")
	room := domain.NewRoom(host, domain.DefaultRoomSettings())

	assert.Regexp(t, regexp.MustCompile(`^\d{5}$`), string(room.ID))
	assert.Equal(t, host.ID, room.HostID)
	require.Len(t, room.Players, 1)
	assert.Equal(t, host, room.Players[0])
	assert.Equal(t, domain.RoomWaiting, room.State)
	assert.Nil(t, room.SelectedGame)
	assert.Equal(t, "lobby", room.RealtimeState.GamePhase)
	assert.Nil(t, room.RealtimeState.FirstPressWinner)
	assert.Equal(t, 8, room.Settings.MaxPlayers)
	assert.Equal(t, 15, room.Settings.RoomLiberationTime)
}

func TestNewRoomID_Format(t *testing.T) {
	re := regexp.MustCompile(`^\d{5}$`)
	for i := 0; i < 1000; i++ {
		assert.Regexp(t, re, string(domain.NewRoomID()))
	}
}

func TestNewPlayer_Validation(t *testing.T) {
	id := domain.NewPlayerID()

	_, err := domain.NewPlayer(id, "")
	assert.ErrorIs(t, err, domain.ErrDisplayNameEmpty)

	long := make([]byte, domain.MaxDisplayNameLen+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = domain.NewPlayer(id, string(long))
	assert.ErrorIs(t, err, domain.ErrDisplayNameTooLong)

	p, err := domain.NewPlayer(id, "Bob")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
}

func TestRoom_AddRemovePlayer_JoinOrder(t *testing.T) {
	host := newHost(t, "Alice")
	room := domain.NewRoom(host, domain.DefaultRoomSettings())

	b := newHost(t, "Bob")
	c := newHost(t, "Carol")
	room.AddPlayer(b)
	room.AddPlayer(c)

	require.Len(t, room.Players, 3)
	assert.Equal(t, []domain.Player{host, b, c}, room.Players)

	assert.True(t, room.RemovePlayer(b.ID))
	assert.Equal(t, []domain.Player{host, c}, room.Players)

	assert.False(t, room.RemovePlayer(b.ID))
}

func TestRoom_Snapshot_Independent(t *testing.T) {
	host := newHost(t, "Alice")
	room := domain.NewRoom(host, domain.DefaultRoomSettings())
	room.RealtimeState.TurnOrder = []domain.PlayerID{host.ID}
	room.RealtimeState.ActiveTimers["round"] = domain.Timer{
		Duration:  30 * time.Second,
		TimerType: "countdown",
	}

	snap := room.Snapshot()

	b := newHost(t, "Bob")
	room.AddPlayer(b)
	room.RealtimeState.TurnOrder = append(room.RealtimeState.TurnOrder, b.ID)
	delete(room.RealtimeState.ActiveTimers, "round")
	winner := host.ID
	room.RealtimeState.FirstPressWinner = &winner

	assert.Len(t, snap.Players, 1)
	assert.Len(t, snap.RealtimeState.TurnOrder, 1)
	assert.Contains(t, snap.RealtimeState.ActiveTimers, "round")
	assert.Nil(t, snap.RealtimeState.FirstPressWinner)
}

func TestRoom_WireShape(t *testing.T) {
	host := newHost(t, "Alice")
	room := domain.NewRoom(host, domain.DefaultRoomSettings())
	room.RealtimeState.PendingActions = append(room.RealtimeState.PendingActions, domain.QueuedAction{
		PlayerID:   host.ID,
		ActionType: "answer",
	})

	data, err := json.Marshal(room.Snapshot())
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Contains(t, wire, "id")
	assert.Contains(t, wire, "host_id")
	assert.Contains(t, wire, "players")
	assert.Contains(t, wire, "settings")
	assert.Contains(t, wire, "realtime_state")
	assert.Equal(t, "Waiting", wire["state"])

	rt, ok := wire["realtime_state"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, rt, "game_phase")
	// The queue is process-local and must never reach clients.
	assert.NotContains(t, rt, "pending_actions")
}

func TestTimer_JSON(t *testing.T) {
	auto := "reveal_answer"
	timer := domain.Timer{
		Duration:   2500 * time.Millisecond,
		TimerType:  "countdown",
		AutoAction: &auto,
	}

	data, err := json.Marshal(timer)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.InDelta(t, 2.5, wire["duration"], 1e-9)
	assert.Equal(t, "countdown", wire["timer_type"])
	assert.Equal(t, "reveal_answer", wire["auto_action"])
	assert.NotContains(t, wire, "started_at")

	var back domain.Timer
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, timer.Duration, back.Duration)
	assert.Equal(t, timer.TimerType, back.TimerType)
	require.NotNil(t, back.AutoAction)
	assert.Equal(t, auto, *back.AutoAction)
}
