package errors

import "errors"

var (
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrNoCustomers      = errors.New("no customers available")
	ErrNoEligibleOrders = errors.New("no eligible orders")
	ErrNotFound         = errors.New("not found")
)
