package generator_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/datafeed/internal/domain/errors"
	"github.com/polkiloo/datafeed/internal/domain/model"
	"github.com/polkiloo/datafeed/internal/fake"
	"github.com/polkiloo/datafeed/internal/generator"
	testhelpers "github.com/polkiloo/datafeed/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestLoop(connector generator.Connector) *generator.Loop {
	return generator.New(connector, fake.NewSeeded(1), 5*time.Millisecond, testLogger())
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %s", what)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestLoopExecutesWeightedOperations(t *testing.T) {
	store := &testhelpers.StoreStub{}
	connector := &testhelpers.ConnectorStub{Stores: []*testhelpers.StoreStub{store}}
	loop := newTestLoop(connector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Start(ctx)

	waitFor(t, "operations", func() bool { return loop.Snapshot().Total >= 30 })
	loop.Stop()

	stats := loop.Snapshot()
	if stats.OrdersCreated+stats.OrdersUpdated+stats.CustomersAdded != stats.Total {
		t.Errorf("per-operation counters %d+%d+%d do not add up to total %d",
			stats.OrdersCreated, stats.OrdersUpdated, stats.CustomersAdded, stats.Total)
	}
	if stats.Failed != 0 {
		t.Errorf("expected no failures, got %d", stats.Failed)
	}
	if connector.ConnectCount() != 1 {
		t.Errorf("expected a single connection, got %d", connector.ConnectCount())
	}
	if store.CloseCount() != 1 {
		t.Errorf("expected store closed once on shutdown, got %d", store.CloseCount())
	}
}

func TestLoopRunsFirstOperationImmediately(t *testing.T) {
	store := &testhelpers.StoreStub{}
	connector := &testhelpers.ConnectorStub{Stores: []*testhelpers.StoreStub{store}}
	// An hour-long interval: only an operation executed before the first
	// sleep can be observed within the test deadline.
	loop := generator.New(connector, fake.NewSeeded(1), time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Start(ctx)
	defer loop.Stop()

	waitFor(t, "first operation", func() bool { return loop.Snapshot().Total == 1 })
}

func TestLoopCountsBenignSkips(t *testing.T) {
	store := &testhelpers.StoreStub{
		CustomerRepo: &testhelpers.CustomerRepositoryStub{
			CreateFn: func(context.Context, string, string) (*model.Customer, error) {
				return nil, domainErrors.ErrDuplicateEmail
			},
		},
		OrderRepo: &testhelpers.OrderRepositoryStub{
			CreateFn: func(context.Context, float64, model.OrderStatus, time.Time) (*model.Order, error) {
				return nil, domainErrors.ErrNoCustomers
			},
			UpdateFn: func(context.Context, model.OrderStatus, time.Time) (*model.Order, error) {
				return nil, domainErrors.ErrNoEligibleOrders
			},
		},
	}
	connector := &testhelpers.ConnectorStub{Stores: []*testhelpers.StoreStub{store}}
	loop := newTestLoop(connector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Start(ctx)

	waitFor(t, "skipped ticks", func() bool { return loop.Snapshot().Total >= 10 })
	loop.Stop()

	stats := loop.Snapshot()
	if stats.Skipped != stats.Total {
		t.Errorf("expected every tick skipped, got %d of %d", stats.Skipped, stats.Total)
	}
	if stats.Failed != 0 {
		t.Errorf("benign skips must not count as failures, got %d", stats.Failed)
	}
	if connector.ConnectCount() != 1 {
		t.Errorf("benign skips must not reconnect, got %d connections", connector.ConnectCount())
	}
}

func TestLoopReconnectsAfterFailedTick(t *testing.T) {
	broken := &testhelpers.StoreStub{
		CustomerRepo: &testhelpers.CustomerRepositoryStub{
			CreateFn: func(context.Context, string, string) (*model.Customer, error) {
				return nil, errors.New("connection reset")
			},
		},
		OrderRepo: &testhelpers.OrderRepositoryStub{
			CreateFn: func(context.Context, float64, model.OrderStatus, time.Time) (*model.Order, error) {
				return nil, errors.New("connection reset")
			},
			UpdateFn: func(context.Context, model.OrderStatus, time.Time) (*model.Order, error) {
				return nil, errors.New("connection reset")
			},
		},
	}
	healthy := &testhelpers.StoreStub{}
	connector := &testhelpers.ConnectorStub{Stores: []*testhelpers.StoreStub{broken, healthy}}
	loop := newTestLoop(connector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Start(ctx)

	waitFor(t, "reconnect and recovery", func() bool {
		return connector.ConnectCount() >= 2 && loop.Snapshot().Total >= 5
	})
	loop.Stop()

	stats := loop.Snapshot()
	if stats.Failed == 0 {
		t.Error("expected at least one failed tick")
	}
	if broken.CloseCount() == 0 {
		t.Error("expected broken store to be discarded")
	}
}

func TestLoopStopsWhenConnectIsCancelled(t *testing.T) {
	connector := &testhelpers.ConnectorStub{}
	loop := newTestLoop(connector)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop.Start(ctx)
	loop.Stop()

	if total := loop.Snapshot().Total; total != 0 {
		t.Errorf("expected no operations after immediate cancel, got %d", total)
	}
}

func TestSnapshotCarriesRunIdentity(t *testing.T) {
	loop := newTestLoop(&testhelpers.ConnectorStub{})

	before := loop.Snapshot()
	if before.RunID == "" {
		t.Fatal("expected run id to be assigned at construction")
	}
	if !before.StartedAt.IsZero() {
		t.Error("expected zero start time before Start")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Start(ctx)
	defer loop.Stop()

	after := loop.Snapshot()
	if after.StartedAt.IsZero() {
		t.Error("expected start time to be recorded")
	}
	if after.RunID != before.RunID {
		t.Error("run id must be stable across snapshots")
	}
}
