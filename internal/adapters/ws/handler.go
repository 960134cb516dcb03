package ws

import (
	"net/http"
	"time"

	"github.com/dkeye/Relay/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Acceptor resolves the join handshake of a new connection.
type Acceptor interface {
	Accept(conn core.FrameConn)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Controller struct {
	Acceptor     Acceptor
	WriteTimeout time.Duration
}

func NewController(a Acceptor, writeTimeout time.Duration) *Controller {
	return &Controller{Acceptor: a, WriteTimeout: writeTimeout}
}

// HandleJoin upgrades the request and hands the connection to the same
// join handshake TCP clients go through.
func (ctl *Controller) HandleJoin(c *gin.Context) {
	addr := c.Request.RemoteAddr
	log.Info().Str("module", "adapters.ws").Str("addr", addr).Str("request_id", c.GetString("request_id")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Str("addr", addr).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(4 * 1024)
	ctl.Acceptor.Accept(NewConn(ws, addr, ctl.WriteTimeout))
}
