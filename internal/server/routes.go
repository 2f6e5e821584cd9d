// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fleveque/foodninja-api/internal/config"
	"github.com/fleveque/foodninja-api/internal/handler"
	"github.com/fleveque/foodninja-api/internal/metrics"
	"github.com/fleveque/foodninja-api/internal/middleware"
)

// RegisterRoutes sets up all HTTP routes on the Gin engine.
// Dependencies are passed explicitly; each handler gets exactly what it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	metrics.Register()

	healthHandler := handler.NewHealthHandler(deps.Version)
	predictHandler := handler.NewPredictHandler(deps.Predictions, cfg.Server.MaxUploadBytes, logger)
	chatHandler := handler.NewChatHandler(deps.Chat, logger)

	r.Use(middleware.RequestLogger(logger, "/health", "/metrics"))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// JSON routes are compressed; chat answers and narratives can be long.
	api := r.Group("")
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	{
		api.GET("/", healthHandler.Root)
		api.GET("/health", healthHandler.Health)
		api.POST("/predict", predictHandler.Predict)
		api.POST("/chat", chatHandler.Chat)
		api.POST("/ask_ai", chatHandler.Ask)
	}
}
