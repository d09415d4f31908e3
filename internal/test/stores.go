package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/datafeed/internal/domain/model"
	"github.com/polkiloo/datafeed/internal/domain/repository"
	"github.com/polkiloo/datafeed/internal/generator"
)

// CustomerRepositoryStub provides controllable customer persistence.
type CustomerRepositoryStub struct {
	CreateFn   func(context.Context, string, string) (*model.Customer, error)
	RandomIDFn func(context.Context) (int64, error)
}

// Create delegates to the configured function or returns a default customer.
func (s *CustomerRepositoryStub) Create(ctx context.Context, name, email string) (*model.Customer, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, name, email)
	}
	return &model.Customer{ID: 1, Name: name, Email: email}, nil
}

// RandomID delegates to the configured function or returns id 1.
func (s *CustomerRepositoryStub) RandomID(ctx context.Context) (int64, error) {
	if s.RandomIDFn != nil {
		return s.RandomIDFn(ctx)
	}
	return 1, nil
}

// OrderRepositoryStub provides controllable order persistence.
type OrderRepositoryStub struct {
	CreateFn func(context.Context, float64, model.OrderStatus, time.Time) (*model.Order, error)
	UpdateFn func(context.Context, model.OrderStatus, time.Time) (*model.Order, error)
}

// CreateForRandomCustomer delegates or returns a default order for customer 1.
func (s *OrderRepositoryStub) CreateForRandomCustomer(ctx context.Context, amount float64, status model.OrderStatus, orderDate time.Time) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, amount, status, orderDate)
	}
	return &model.Order{ID: 1, CustomerID: 1, TotalAmount: amount, Status: status, OrderDate: orderDate}, nil
}

// UpdateRandomActive delegates or reports order 1 as updated.
func (s *OrderRepositoryStub) UpdateRandomActive(ctx context.Context, status model.OrderStatus, updatedAt time.Time) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, status, updatedAt)
	}
	return &model.Order{ID: 1, Status: status, UpdatedAt: updatedAt}, nil
}

// StoreStub mimics the storage facade the generator loop owns.
type StoreStub struct {
	CustomerRepo *CustomerRepositoryStub
	OrderRepo    *OrderRepositoryStub
	CloseFn      func(context.Context) error

	mu     sync.Mutex
	closed int
}

// Customers returns the configured customer repository stub.
func (s *StoreStub) Customers() repository.CustomerRepository {
	if s.CustomerRepo == nil {
		s.CustomerRepo = &CustomerRepositoryStub{}
	}
	return s.CustomerRepo
}

// Orders returns the configured order repository stub.
func (s *StoreStub) Orders() repository.OrderRepository {
	if s.OrderRepo == nil {
		s.OrderRepo = &OrderRepositoryStub{}
	}
	return s.OrderRepo
}

// Close counts invocations and delegates when configured.
func (s *StoreStub) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	if s.CloseFn != nil {
		return s.CloseFn(ctx)
	}
	return nil
}

// CloseCount reports how many times the store was discarded.
func (s *StoreStub) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ConnectorStub hands out stores from a queue, then keeps returning the
// last one.
type ConnectorStub struct {
	Stores []*StoreStub

	mu    sync.Mutex
	calls int
}

// Connect returns the next queued store.
func (c *ConnectorStub) Connect(ctx context.Context) (generator.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if len(c.Stores) == 0 {
		c.Stores = []*StoreStub{{}}
	}
	idx := c.calls - 1
	if idx >= len(c.Stores) {
		idx = len(c.Stores) - 1
	}
	return c.Stores[idx], nil
}

// ConnectCount reports how many connections were handed out.
func (c *ConnectorStub) ConnectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
