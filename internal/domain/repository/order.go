package repository

import (
	"context"
	"time"

	"github.com/polkiloo/datafeed/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// CreateForRandomCustomer samples a random existing customer and inserts
	// an order for it, both inside a single transaction. Returns
	// ErrNoCustomers when no customer exists yet.
	CreateForRandomCustomer(ctx context.Context, amount float64, status model.OrderStatus, orderDate time.Time) (*model.Order, error)

	// UpdateRandomActive samples a random order whose status is still
	// active and moves it to the given status, inside a single transaction.
	// Returns ErrNoEligibleOrders when every order is terminal or none exist.
	UpdateRandomActive(ctx context.Context, status model.OrderStatus, updatedAt time.Time) (*model.Order, error)
}
