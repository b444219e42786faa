package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// SetupRouter builds the engine: request logging, metrics and error mapping
// on every route, /health and /metrics at the root and the API under /api.
func SetupRouter(deps api.Deps, health HealthChecker, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.ErrorHandler(),
		middleware.CORS(corsOrigins),
	)

	router.GET("/health", healthHandler(health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api.SetupAPI(router.Group("/api"), deps)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "code": "not_found"})
	})
	return router
}

func healthHandler(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := health.HealthCheck(ctx); err != nil {
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
	}
}
