// Package http wires the gin routing table: the websocket entry point
// for clients and the control-plane endpoints the external game-logic
// service pushes into.
package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/partyhub/gamecenter/internal/adapters/ws"
	"github.com/partyhub/gamecenter/internal/config"
	"github.com/partyhub/gamecenter/internal/core"
	"github.com/partyhub/gamecenter/internal/domain"
	"github.com/partyhub/gamecenter/internal/gameapi"
)

func SetupRouter(ctx context.Context, cfg *config.Config, registry *core.Registry, catalog *domain.Catalog, games *gameapi.Client) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"*"},
	}))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello, World! This is the GameCenter.")
	})

	wsCtl := &ws.Controller{
		Registry: registry,
		Catalog:  catalog,
		Games:    games,
		Cfg:      cfg,
	}
	r.GET("/ws", func(c *gin.Context) {
		wsCtl.HandleWS(ctx, c)
	})

	r.GET("/games", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.List())
	})

	control := &ControlHandlers{Registry: registry}
	r.POST("/realtime/broadcast", control.Broadcast)
	r.POST("/realtime/enable_action", control.EnableAction)
	r.POST("/game/next_phase", control.NextPhase)

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
