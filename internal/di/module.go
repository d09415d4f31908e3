package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/datafeed/internal/app"
	"github.com/polkiloo/datafeed/internal/config"
	"github.com/polkiloo/datafeed/internal/fake"
	"github.com/polkiloo/datafeed/internal/logger"
	"github.com/polkiloo/datafeed/internal/server/http/router"
	"github.com/polkiloo/datafeed/internal/storage/postgres"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		fake.Module,
		postgres.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
