package gameapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyhub/gamecenter/internal/domain"
	"github.com/partyhub/gamecenter/internal/gameapi"
)

type recorded struct {
	path string
	body []byte
}

func recorder(t *testing.T) (*httptest.Server, chan recorded) {
	t.Helper()
	ch := make(chan recorded, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		ch <- recorded{path: r.URL.Path, body: body}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func TestClient_Init(t *testing.T) {
	srv, ch := recorder(t)
	client := gameapi.NewClient(time.Second)

	host, err := domain.NewPlayer(domain.NewPlayerID(), "Alice")
	require.NoError(t, err)
	room := domain.NewRoom(host, domain.DefaultRoomSettings())

	client.Init(context.Background(), srv.URL, room.Snapshot())

	select {
	case got := <-ch:
		assert.Equal(t, "/game/init", got.path)
		var payload struct {
			RoomID   string              `json:"room_id"`
			Players  []domain.Player     `json:"players"`
			Settings domain.RoomSettings `json:"settings"`
		}
		require.NoError(t, json.Unmarshal(got.body, &payload))
		assert.Equal(t, string(room.ID), payload.RoomID)
		require.Len(t, payload.Players, 1)
		assert.Equal(t, "Alice", payload.Players[0].DisplayName)
		assert.Equal(t, 8, payload.Settings.MaxPlayers)
	case <-time.After(2 * time.Second):
		t.Fatal("game service was never called")
	}
}

func TestClient_FirstPress(t *testing.T) {
	srv, ch := recorder(t)
	client := gameapi.NewClient(time.Second)

	winner := domain.NewPlayerID()
	client.FirstPress(context.Background(), srv.URL, "12345", winner)

	select {
	case got := <-ch:
		assert.Equal(t, "/game/event", got.path)
		var payload struct {
			RoomID string `json:"room_id"`
			Data   struct {
				Action string `json:"action"`
				Winner string `json:"winner"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(got.body, &payload))
		assert.Equal(t, "12345", payload.RoomID)
		assert.Equal(t, "first_press", payload.Data.Action)
		assert.Equal(t, string(winner), payload.Data.Winner)
	case <-time.After(2 * time.Second):
		t.Fatal("game service was never called")
	}
}

func TestClient_FailureIsSwallowed(t *testing.T) {
	client := gameapi.NewClient(200 * time.Millisecond)
	// Nothing listens here; the call must log and return, not panic or
	// propagate.
	client.FirstPress(context.Background(), "http://127.0.0.1:1", "12345", domain.NewPlayerID())
}
