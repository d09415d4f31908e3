package generator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/datafeed/internal/domain/errors"
	"github.com/polkiloo/datafeed/internal/domain/repository"
	"github.com/polkiloo/datafeed/internal/fake"
)

// Store is the slice of storage the loop works against. The loop owns it
// exclusively and replaces it wholesale after any failed tick.
type Store interface {
	repository.Factory
	Close(ctx context.Context) error
}

// Connector produces a fresh store, retrying internally until it succeeds.
// The returned error is only ever context cancellation.
type Connector interface {
	Connect(ctx context.Context) (Store, error)
}

// Stats is a point-in-time snapshot of loop counters.
type Stats struct {
	RunID          string
	StartedAt      time.Time
	Total          uint64
	OrdersCreated  uint64
	OrdersUpdated  uint64
	CustomersAdded uint64
	Skipped        uint64
	Failed         uint64
}

// Loop continuously writes randomized customers and orders. Each tick picks
// one weighted-random operation, executes it inside one transaction, and
// sleeps for the configured interval. It runs until its context is cancelled.
type Loop struct {
	connector Connector
	data      *fake.Generator
	interval  time.Duration
	logger    *slog.Logger
	runID     string

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startedAt time.Time
	total     atomic.Uint64
	orders    atomic.Uint64
	updates   atomic.Uint64
	customers atomic.Uint64
	skipped   atomic.Uint64
	failed    atomic.Uint64
}

// New constructs the generator loop.
func New(connector Connector, data *fake.Generator, interval time.Duration, logger *slog.Logger) *Loop {
	return &Loop{
		connector: connector,
		data:      data,
		interval:  interval,
		logger:    logger,
		runID:     uuid.NewString(),
	}
}

// Start launches the loop in the background.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.startedAt = time.Now()

	l.wg.Add(1)
	go l.run(runCtx)
}

// Stop cancels the loop and waits for the current tick to finish.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()

	l.wg.Wait()
}

// Snapshot returns current counters for the status endpoint.
func (l *Loop) Snapshot() Stats {
	l.mu.Lock()
	startedAt := l.startedAt
	l.mu.Unlock()

	return Stats{
		RunID:          l.runID,
		StartedAt:      startedAt,
		Total:          l.total.Load(),
		OrdersCreated:  l.orders.Load(),
		OrdersUpdated:  l.updates.Load(),
		CustomersAdded: l.customers.Load(),
		Skipped:        l.skipped.Load(),
		Failed:         l.failed.Load(),
	}
}

func (l *Loop) run(ctx context.Context) {
	defer l.wg.Done()

	l.logger.Info("starting data generator",
		slog.String("run_id", l.runID),
		slog.Duration("write_interval", l.interval),
	)

	store, err := l.connector.Connect(ctx)
	if err != nil {
		return
	}
	defer func() {
		if store != nil {
			if cerr := store.Close(context.Background()); cerr != nil {
				l.logger.Warn("closing connection", slog.String("error", cerr.Error()))
			}
		}
		l.logger.Info("data generator stopped", slog.Uint64("total_operations", l.total.Load()))
	}()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	// The interval is the sleep between operations, not a lead-in delay:
	// the first operation runs as soon as the connection is up.
	for {
		next, err := l.tick(ctx, store)
		if err != nil {
			// The failed tick already discarded the connection.
			store = nil
			return
		}
		store = next

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick runs exactly one operation. Benign outcomes (nothing to act on,
// duplicate email) still count as completed ticks; real errors discard the
// connection and dial a new one. The returned error is only ever context
// cancellation during a reconnect.
func (l *Loop) tick(ctx context.Context, store Store) (Store, error) {
	op := l.data.Operation()
	err := l.execute(ctx, store, op)

	switch {
	case err == nil:
		l.completed()
	case errors.Is(err, domainErrors.ErrNoCustomers):
		l.logger.Info("no customers yet, skipping order insert")
		l.skipped.Add(1)
		l.completed()
	case errors.Is(err, domainErrors.ErrNoEligibleOrders):
		l.logger.Info("no orders available to update")
		l.skipped.Add(1)
		l.completed()
	case errors.Is(err, domainErrors.ErrDuplicateEmail):
		l.logger.Warn("email already exists, skipping customer insert")
		l.skipped.Add(1)
		l.completed()
	default:
		l.failed.Add(1)
		l.logger.Error("operation failed",
			slog.String("operation", string(op)),
			slog.String("error", err.Error()),
		)
		if cerr := store.Close(ctx); cerr != nil {
			l.logger.Warn("discarding connection", slog.String("error", cerr.Error()))
		}
		return l.connector.Connect(ctx)
	}

	return store, nil
}

func (l *Loop) execute(ctx context.Context, store Store, op fake.Operation) error {
	switch op {
	case fake.OpInsertOrder:
		order, err := store.Orders().CreateForRandomCustomer(ctx, l.data.Amount(), l.data.Status(), time.Now())
		if err != nil {
			return err
		}
		l.orders.Add(1)
		l.logger.Info("inserted order",
			slog.Int64("order_id", order.ID),
			slog.Int64("customer_id", order.CustomerID),
			slog.Float64("amount", order.TotalAmount),
			slog.String("status", string(order.Status)),
		)
	case fake.OpUpdateOrder:
		order, err := store.Orders().UpdateRandomActive(ctx, l.data.UpdateStatus(), time.Now())
		if err != nil {
			return err
		}
		l.updates.Add(1)
		l.logger.Info("updated order",
			slog.Int64("order_id", order.ID),
			slog.String("new_status", string(order.Status)),
		)
	case fake.OpInsertCustomer:
		customer, err := store.Customers().Create(ctx, l.data.Name(), l.data.Email())
		if err != nil {
			return err
		}
		l.customers.Add(1)
		l.logger.Info("inserted customer",
			slog.Int64("customer_id", customer.ID),
			slog.String("name", customer.Name),
			slog.String("email", customer.Email),
		)
	}
	return nil
}

func (l *Loop) completed() {
	total := l.total.Add(1)
	if total%10 == 0 {
		l.logger.Info("total operations performed", slog.Uint64("total", total))
	}
}
