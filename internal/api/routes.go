package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/caravanonline/backend/internal/api/handlers"
	"github.com/caravanonline/backend/internal/config"
	"github.com/caravanonline/backend/internal/middleware"
	"github.com/caravanonline/backend/internal/solo"
	"github.com/caravanonline/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	sessionTTL := time.Duration(cfg.SoloSessionTTLMinutes) * time.Minute
	soloHandler := solo.NewHandler(solo.NewRedisStore(rdb, sessionTTL), cfg)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Online multiplayer: all room and turn commands run over this socket
		v1.GET("/ws", ws.HandleWebSocket)

		// Legacy single-player variant, state held per browser session
		soloGroup := v1.Group("/solo")
		{
			soloGroup.GET("/state", soloHandler.GetState)
			soloGroup.POST("/move", soloHandler.Move)
			soloGroup.POST("/reset", soloHandler.Reset)
		}
	}
}
