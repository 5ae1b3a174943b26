package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/venue-analytics-service/internal/analytics"
	"github.com/PratikDhanave/venue-analytics-service/internal/auth"
	"github.com/PratikDhanave/venue-analytics-service/internal/config"
	"github.com/PratikDhanave/venue-analytics-service/internal/handlers"
	"github.com/PratikDhanave/venue-analytics-service/internal/store"
)

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready, /metrics
// Authenticated: /centers/..., /timeline/...
func NewRouter(cfg config.Config, backend store.Backend, svc *analytics.Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), RequestContext())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the record store is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := backend.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers.RegisterMetricRoutes(r)

	// Auth group resolves the caller's role via X-API-Key.
	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(cfg.Auth.Keys))

	handlers.RegisterCenterRoutes(authGroup, svc)
	handlers.RegisterTimelineRoutes(authGroup, svc)

	return r
}
