package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/datafeed/internal/server/http/handlers"
	"github.com/polkiloo/datafeed/internal/server/http/middleware"
)

// Setup configures gin router with the operational endpoints.
func Setup(stats handlers.GeneratorStats, interval time.Duration, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	statusHandler := handlers.NewStatusHandler(stats, interval)

	engine.GET("/healthz", statusHandler.Health)
	engine.GET("/status", statusHandler.Status)

	return engine
}
