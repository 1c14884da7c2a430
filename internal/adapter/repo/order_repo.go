package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"headshots/internal/domain"
)

// OrderRepositoryPG implements domain.OrderRepository using PostgreSQL.
type OrderRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewOrderRepository constructs a new order repository instance.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepositoryPG {
	return &OrderRepositoryPG{pool: pool}
}

// Create inserts a new order record.
func (r *OrderRepositoryPG) Create(ctx context.Context, order *domain.Order) error {
	query := `
INSERT INTO orders (id, email, tier, locale, status, model_ref, error_message)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.Email,
		order.Tier,
		order.Locale,
		order.Status,
		order.ModelRef,
		order.ErrorMessage,
	)
	return err
}

// GetByID fetches an order by its identifier.
func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
SELECT id, email, tier, locale, status, model_ref, error_message, created_at, updated_at
FROM orders
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	var order domain.Order
	if err := row.Scan(
		&order.ID,
		&order.Email,
		&order.Tier,
		&order.Locale,
		&order.Status,
		&order.ModelRef,
		&order.ErrorMessage,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// CompareAndSetStatus transitions the order from expected to next in one
// statement. It reports whether this caller performed the transition; a
// false return with no error means the stored status no longer matched.
func (r *OrderRepositoryPG) CompareAndSetStatus(ctx context.Context, id string, expected, next domain.OrderStatus) (bool, error) {
	query := `
UPDATE orders
SET status = $3,
    updated_at = NOW()
WHERE id = $1 AND status = $2;
`
	tag, err := r.pool.Exec(ctx, query, id, expected, next)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetModelRef records the trained model reference reported by the provider.
func (r *OrderRepositoryPG) SetModelRef(ctx context.Context, id, modelRef string) error {
	query := `
UPDATE orders
SET model_ref = $2,
    updated_at = NOW()
WHERE id = $1;
`
	_, err := r.pool.Exec(ctx, query, id, modelRef)
	return err
}

// SetFailed moves a non-terminal order to failed with the given reason.
// Completed and already-failed orders are left untouched.
func (r *OrderRepositoryPG) SetFailed(ctx context.Context, id, reason string) error {
	query := `
UPDATE orders
SET status = $2,
    error_message = $3,
    updated_at = NOW()
WHERE id = $1 AND status NOT IN ($4, $5);
`
	_, err := r.pool.Exec(ctx, query, id, domain.OrderStatusFailed, reason, domain.OrderStatusCompleted, domain.OrderStatusFailed)
	return err
}
