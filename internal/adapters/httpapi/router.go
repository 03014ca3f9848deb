package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/appforge/collabhub/internal/adapters/signal"
	"github.com/appforge/collabhub/internal/app"
	"github.com/appforge/collabhub/internal/config"
	"github.com/appforge/collabhub/internal/core"
)

func SetupRouter(ctx context.Context, cfg *config.Config, hub *app.Hub, verifier core.TokenVerifier) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ctrl := signal.NewController(hub, verifier, cfg)

	api := r.Group("/api")
	api.GET("/ws/collab", func(c *gin.Context) {
		ctrl.HandleCollab(ctx, c)
	})
	// Point-in-time counters for operational pollers; read-only, never
	// blocks relay.
	api.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Stats())
	})

	log.Info().Str("module", "adapters.httpapi").Msg("router setup")
	return r
}
