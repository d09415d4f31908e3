package postgres

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/datafeed/internal/config"
)

// Module wires the PostgreSQL connector. The store itself is created and
// replaced by the generator, which exclusively owns the connection.
var Module = fx.Provide(newConnector)

type connectorParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newConnector(p connectorParams) *Connector {
	return NewConnector(p.Config.DatabaseDSN(), p.Config.ConnectRetryDelay, p.Logger)
}
