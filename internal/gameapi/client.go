// Package gameapi is the outbound HTTP client to the game service a
// room has selected. Every call is fire-and-forget: issued from a
// detached goroutine after the room's lock is released, logged on
// failure, never retried and never surfaced to clients.
package gameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/partyhub/gamecenter/internal/domain"
)

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

type initPayload struct {
	RoomID   domain.RoomID       `json:"room_id"`
	Players  []domain.Player     `json:"players"`
	Settings domain.RoomSettings `json:"settings"`
}

// Init tells the game service a game has started in the room.
func (c *Client) Init(ctx context.Context, endpoint string, room domain.Room) {
	c.post(ctx, endpoint+"/game/init", initPayload{
		RoomID:   room.ID,
		Players:  room.Players,
		Settings: room.Settings,
	})
}

type eventPayload struct {
	RoomID domain.RoomID   `json:"room_id"`
	Data   json.RawMessage `json:"data"`
}

// FirstPress reports the buzzer winner.
func (c *Client) FirstPress(ctx context.Context, endpoint string, roomID domain.RoomID, winner domain.PlayerID) {
	data, _ := json.Marshal(map[string]string{
		"action": "first_press",
		"winner": string(winner),
	})
	c.post(ctx, endpoint+"/game/event", eventPayload{RoomID: roomID, Data: data})
}

func (c *Client) post(ctx context.Context, url string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("module", "gameapi").Str("url", url).Msg("marshal payload")
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Str("module", "gameapi").Str("url", url).Msg("build request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Str("module", "gameapi").Str("url", url).Msg("notify game service")
		return
	}
	defer resp.Body.Close()
	log.Info().Str("module", "gameapi").Str("url", url).Int("status", resp.StatusCode).Msg("game service notified")
}
