package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/datafeed/internal/config"
	"github.com/polkiloo/datafeed/internal/fake"
	"github.com/polkiloo/datafeed/internal/generator"
	"github.com/polkiloo/datafeed/internal/server/http/handlers"
	"github.com/polkiloo/datafeed/internal/storage/postgres"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newConnector,
		newGenerator,
		newHTTPServer,
		func(l *generator.Loop) handlers.GeneratorStats { return l },
	),
	fx.Invoke(registerLifecycle),
)

// storeConnector adapts the postgres connector to the interface the
// generator loop consumes.
type storeConnector struct {
	inner *postgres.Connector
}

func (c storeConnector) Connect(ctx context.Context) (generator.Store, error) {
	store, err := c.inner.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newConnector(inner *postgres.Connector) generator.Connector {
	return storeConnector{inner: inner}
}

type generatorParams struct {
	fx.In

	Connector generator.Connector
	Data      *fake.Generator
	Config    *config.Config
	Logger    *slog.Logger
}

func newGenerator(p generatorParams) *generator.Loop {
	return generator.New(p.Connector, p.Data, p.Config.WriteInterval, p.Logger)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.StatusAddress,
		Handler: p.Router,
	}
}

type lifecycleParams struct {
	fx.In

	Ctx        context.Context
	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Loop       *generator.Loop
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			p.Logger.Info("starting datafeed",
				slog.String("database", p.Config.DatabaseHost),
				slog.Int("port", p.Config.DatabasePort),
				slog.String("name", p.Config.DatabaseName),
				slog.String("status_addr", p.Server.Addr),
			)
			p.Loop.Start(p.Ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Loop.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("datafeed stopped")
			return nil
		},
	})
}
