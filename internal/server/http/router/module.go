package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/datafeed/internal/config"
	"github.com/polkiloo/datafeed/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(setup)

type routerParams struct {
	fx.In

	Stats  handlers.GeneratorStats
	Config *config.Config
	Logger *slog.Logger
}

func setup(p routerParams) *gin.Engine {
	return Setup(p.Stats, p.Config.WriteInterval, p.Logger)
}
