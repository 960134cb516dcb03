package http

import (
	"net/http"

	"github.com/dkeye/Relay/internal/adapters/ws"
	"github.com/dkeye/Relay/internal/config"
	"github.com/dkeye/Relay/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware keeps the caller's X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func SetupRouter(cfg *config.Config, o core.RoomService) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		if o.Closing() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "closing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.GET("/room", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Info())
	})

	// GET /api/room/members lists members in join order
	api.GET("/room/members", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Members())
	})

	// DELETE /api/room/members/:name kicks a member
	api.DELETE("/room/members/:name", func(c *gin.Context) {
		name := c.Param("name")
		if !o.Kick(name) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such member"})
			return
		}
		log.Info().Str("module", "adapters.http").Str("request_id", c.GetString("request_id")).Str("name", name).Msg("member kicked")
		c.Status(http.StatusNoContent)
	})

	ctl := ws.NewController(o, cfg.WriteTimeout)
	r.GET("/ws/join", ctl.HandleJoin)

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}
