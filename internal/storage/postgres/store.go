package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/datafeed/internal/domain/errors"
	"github.com/polkiloo/datafeed/internal/domain/model"
	"github.com/polkiloo/datafeed/internal/domain/repository"
)

// Conn captures the subset of *pgx.Conn used by the store. The generator
// owns exactly one connection at a time; it is replaced wholesale after a
// failure, never pooled or shared.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Store acts as repository facade backed by a single PostgreSQL connection.
// The schema is created externally; the store only reads and writes it.
type Store struct {
	conn   Conn
	logger *slog.Logger
}

type customerRepository struct {
	store *Store
}

type orderRepository struct {
	store *Store
}

// NewStore wraps an established connection.
func NewStore(conn Conn, logger *slog.Logger) *Store {
	return &Store{conn: conn, logger: logger}
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.conn.Ping(ctx)
}

// Factory methods for domain repositories.
func (s *Store) Customers() repository.CustomerRepository {
	return &customerRepository{store: s}
}

func (s *Store) Orders() repository.OrderRepository {
	return &orderRepository{store: s}
}

// --- CustomerRepository implementation ---

func (r *customerRepository) Create(ctx context.Context, name, email string) (*model.Customer, error) {
	const query = `INSERT INTO customers (name, email) VALUES ($1, $2) RETURNING id`
	customer := model.Customer{Name: name, Email: email}
	err := r.store.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query, name, email).Scan(&customer.ID)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrDuplicateEmail
		}
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) RandomID(ctx context.Context) (int64, error) {
	return randomCustomerID(ctx, r.store.conn)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func randomCustomerID(ctx context.Context, q queryRower) (int64, error) {
	const query = `SELECT id FROM customers ORDER BY RANDOM() LIMIT 1`
	var id int64
	if err := q.QueryRow(ctx, query).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrNoCustomers
		}
		return 0, err
	}
	return id, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) CreateForRandomCustomer(ctx context.Context, amount float64, status model.OrderStatus, orderDate time.Time) (*model.Order, error) {
	const insertQuery = `INSERT INTO orders (customer_id, order_date, total_amount, status)
                         VALUES ($1, $2, $3, $4) RETURNING id`
	order := model.Order{OrderDate: orderDate, TotalAmount: amount, Status: status}
	err := r.store.WithinTransaction(ctx, func(tx pgx.Tx) error {
		customerID, err := randomCustomerID(ctx, tx)
		if err != nil {
			return err
		}
		order.CustomerID = customerID
		return tx.QueryRow(ctx, insertQuery, customerID, orderDate, amount, status).Scan(&order.ID)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateRandomActive(ctx context.Context, status model.OrderStatus, updatedAt time.Time) (*model.Order, error) {
	const selectQuery = `SELECT id FROM orders
                         WHERE status IN ('pending', 'processing', 'shipped')
                         ORDER BY RANDOM() LIMIT 1`
	const updateQuery = `UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`
	order := model.Order{Status: status, UpdatedAt: updatedAt}
	err := r.store.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, selectQuery).Scan(&order.ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNoEligibleOrders
			}
			return err
		}
		_, err := tx.Exec(ctx, updateQuery, status, updatedAt, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Store) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}
