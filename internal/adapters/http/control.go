package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/partyhub/gamecenter/internal/core"
	"github.com/partyhub/gamecenter/internal/domain"
	"github.com/partyhub/gamecenter/internal/protocol"
)

// ControlHandlers are the mutation points an external game-logic
// service uses to push broadcasts and state into a room. They are a
// boundary contract, not game logic.
type ControlHandlers struct {
	Registry *core.Registry
}

type BroadcastRequest struct {
	RoomID    string          `json:"room_id" binding:"required"`
	EventType string          `json:"event_type" binding:"required"`
	Data      json.RawMessage `json:"data"`
}

func (h *ControlHandlers) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Registry.WithRoom(domain.RoomID(req.RoomID), func(room *domain.Room, hub *core.Hub) error {
		frame, err := protocol.EncodeBroadcastEvent(req.EventType, req.Data)
		if err != nil {
			return err
		}
		hub.Publish(frame)
		return nil
	})
	h.finish(c, req.RoomID, err)
}

type EnableActionRequest struct {
	RoomID     string `json:"room_id" binding:"required"`
	ActionType string `json:"action_type" binding:"required"`
	Enabled    *bool  `json:"enabled" binding:"required"`
}

// EnableAction is a declared extension point: toggling action
// availability has no internal effect yet, but a room_update is
// emitted regardless so subscribed clients stay convergent.
func (h *ControlHandlers) EnableAction(c *gin.Context) {
	var req EnableActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Registry.WithRoom(domain.RoomID(req.RoomID), func(room *domain.Room, hub *core.Hub) error {
		log.Info().Str("module", "adapters.http").
			Str("room", req.RoomID).
			Str("action_type", req.ActionType).
			Bool("enabled", *req.Enabled).
			Msg("action toggled")

		frame, err := protocol.EncodeRoomUpdate(room.Snapshot())
		if err != nil {
			return err
		}
		hub.Publish(frame)
		return nil
	})
	h.finish(c, req.RoomID, err)
}

type NextPhaseRequest struct {
	RoomID string          `json:"room_id" binding:"required"`
	Phase  string          `json:"phase" binding:"required"`
	UIData json.RawMessage `json:"ui_data"`
}

func (h *ControlHandlers) NextPhase(c *gin.Context) {
	var req NextPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Registry.WithRoom(domain.RoomID(req.RoomID), func(room *domain.Room, hub *core.Hub) error {
		room.RealtimeState.GamePhase = req.Phase

		frame, err := protocol.EncodeGameState(req.Phase, req.UIData)
		if err != nil {
			return err
		}
		hub.Publish(frame)
		return nil
	})
	h.finish(c, req.RoomID, err)
}

func (h *ControlHandlers) finish(c *gin.Context, roomID string, err error) {
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.Is(err, core.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found", "room_id": roomID})
	default:
		log.Error().Err(err).Str("module", "adapters.http").Str("room", roomID).Msg("control request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
