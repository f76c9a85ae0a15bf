package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"sapphirus/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id::text, user_id::text, COALESCE(payment_intent_id, ''), status, total_amount, shipping_address_id::text, shipping_cost, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) CreateWithItems(ctx context.Context, in CreateInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (user_id, payment_intent_id, status, total_amount, shipping_address_id, shipping_cost)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
RETURNING ` + orderColumns + `
`
	ord, err := scanOrder(tx.QueryRow(ctx, insertOrder,
		in.UserID,
		in.PaymentIntentID,
		in.Status,
		in.TotalAmount,
		in.ShippingAddressID,
		in.ShippingCost,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert user_id=%s error=%v", in.UserID, err)
		return nil, err
	}

	for _, item := range in.Items {
		var itm domain.OrderItem
		err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)
RETURNING id::text, order_id::text, product_id::text, quantity, unit_price, created_at
`, ord.ID, item.ProductID, item.Quantity, item.UnitPrice).Scan(
			&itm.ID,
			&itm.OrderID,
			&itm.ProductID,
			&itm.Quantity,
			&itm.UnitPrice,
			&itm.CreatedAt,
		)
		if err != nil {
			r.logger.Printf("order repo: insert item order=%s product=%s error=%v", ord.ID, item.ProductID, err)
			return nil, fmt.Errorf("insert order item %s: %w", item.ProductID, err)
		}

		// Floor-at-zero decrement inside the same transaction; oversell
		// absorbs to zero rather than failing the order.
		var stock int
		err = tx.QueryRow(ctx, `
UPDATE products
SET stock = GREATEST(stock - $2, 0),
    updated_at = now()
WHERE id = $1
RETURNING stock
`, item.ProductID, item.Quantity).Scan(&stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("decrement stock: product %s: %w", item.ProductID, domain.ErrNotFound)
			}
			r.logger.Printf("order repo: decrement stock product=%s error=%v", item.ProductID, err)
			return nil, fmt.Errorf("decrement stock %s: %w", item.ProductID, err)
		}
		ord.Items = append(ord.Items, itm)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ord, nil
}

func (r *postgresRepo) GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE payment_intent_id = $1
LIMIT 1
`
	ord, err := scanOrder(r.pool.QueryRow(ctx, q, intentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.attachItems(ctx, ord); err != nil {
		return nil, err
	}
	return ord, nil
}

func (r *postgresRepo) ExistsRecent(ctx context.Context, userID string, total float64, window time.Duration) (bool, error) {
	const q = `
SELECT EXISTS (
	SELECT 1
	FROM orders
	WHERE user_id = $1 AND total_amount = $2 AND created_at >= $3
)
`
	var exists bool
	cutoff := time.Now().Add(-window)
	if err := r.pool.QueryRow(ctx, q, userID, total, cutoff).Scan(&exists); err != nil {
		r.logger.Printf("order repo: exists-recent user_id=%s error=%v", userID, err)
		return false, err
	}
	return exists, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	ord, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.attachItems(ctx, ord); err != nil {
		return nil, err
	}
	return ord, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.listOrders(ctx, q, userID)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC
`
	return r.listOrders(ctx, q)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	q := `
UPDATE orders
SET status = $2,
    updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns + `
`
	ord, err := scanOrder(r.pool.QueryRow(ctx, q, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: update status id=%s error=%v", id, err)
		return nil, err
	}
	return ord, nil
}

func (r *postgresRepo) listOrders(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := r.attachItems(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) attachItems(ctx context.Context, ord *domain.Order) error {
	const q = `
SELECT oi.id::text, oi.order_id::text, oi.product_id::text, oi.quantity, oi.unit_price, oi.created_at, COALESCE(p.name, '')
FROM order_items oi
LEFT JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = $1
ORDER BY oi.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, ord.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var itm domain.OrderItem
		if err := rows.Scan(
			&itm.ID,
			&itm.OrderID,
			&itm.ProductID,
			&itm.Quantity,
			&itm.UnitPrice,
			&itm.CreatedAt,
			&itm.ProductName,
		); err != nil {
			return err
		}
		ord.Items = append(ord.Items, itm)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var ord domain.Order
	var userID *string
	var intentID string
	var addressID *string
	if err := row.Scan(
		&ord.ID,
		&userID,
		&intentID,
		&ord.Status,
		&ord.TotalAmount,
		&addressID,
		&ord.ShippingCost,
		&ord.CreatedAt,
		&ord.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ord.UserID = userID
	ord.PaymentIntentID = intentID
	ord.ShippingAddressID = addressID
	return &ord, nil
}
