// Package ws is the websocket adapter: it upgrades connections and
// runs one Session per connection for its whole lifetime.
package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/partyhub/gamecenter/internal/config"
	"github.com/partyhub/gamecenter/internal/core"
	"github.com/partyhub/gamecenter/internal/domain"
	"github.com/partyhub/gamecenter/internal/gameapi"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	Registry *core.Registry
	Catalog  *domain.Catalog
	Games    *gameapi.Client
	Cfg      *config.Config
}

// HandleWS upgrades the request and runs the session until the client
// goes away. ctx is the server lifetime, not the connection's; it also
// scopes the detached game-service notifications a session fires.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("ws upgrade")
		return
	}
	newSession(ctl, conn).run(ctx)
}
