package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/labelforge/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	api := router.Group("/api")
	{
		api.GET("/health", handler.HealthCheck)

		api.POST("/generate/:region", handler.GenerateLabel)
		api.POST("/validate/:region", handler.ValidateRecord)

		samples := api.Group("/samples")
		{
			samples.GET("/:region", handler.ListSamples)
			samples.GET("/:region/:name", handler.GetSample)
		}
	}

	return router
}
