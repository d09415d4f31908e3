package repository

import (
	"context"

	"github.com/polkiloo/datafeed/internal/domain/model"
)

// CustomerRepository describes persistence operations with customers.
type CustomerRepository interface {
	// Create inserts a new customer inside its own transaction.
	// Returns ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, name, email string) (*model.Customer, error)

	// RandomID samples a uniformly random existing customer id.
	// Returns ErrNoCustomers when the table is empty.
	RandomID(ctx context.Context) (int64, error)
}
