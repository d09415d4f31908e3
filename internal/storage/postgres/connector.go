package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

// DialFunc establishes a single database connection.
type DialFunc func(ctx context.Context, dsn string) (Conn, error)

// Connector dials PostgreSQL with infinite fixed-delay retry. A failed
// attempt is never fatal; Connect keeps trying until it succeeds or the
// context is cancelled.
type Connector struct {
	dsn        string
	retryDelay time.Duration
	logger     *slog.Logger
	dial       DialFunc
}

// NewConnector creates a connector for the given DSN.
func NewConnector(dsn string, retryDelay time.Duration, logger *slog.Logger) *Connector {
	return &Connector{
		dsn:        dsn,
		retryDelay: retryDelay,
		logger:     logger,
		dial:       dialPgx,
	}
}

func dialPgx(ctx context.Context, dsn string) (Conn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}
	return conn, nil
}

// Connect returns a store over a fresh connection. The only possible error
// is context cancellation; any dial failure is logged and retried after the
// configured delay.
func (c *Connector) Connect(ctx context.Context) (*Store, error) {
	for {
		conn, err := c.dial(ctx, c.dsn)
		if err == nil {
			c.logger.Info("connected to postgres")
			return NewStore(conn, c.logger), nil
		}

		c.logger.Error("postgres connection failed",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", c.retryDelay),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}
