package router

import (
	"github.com/gin-gonic/gin"

	"credintel/internal/config"
	"credintel/internal/handler"
	"credintel/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Report generation, throttled per client
	ai := r.Group("/ai")
	ai.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	ai.POST("/generate_credit_report", reportH.Generate)

	return r
}
