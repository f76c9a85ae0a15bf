package address

import (
	"context"
	"errors"

	"sapphirus/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const addressColumns = `id::text, user_id::text, full_name, phone, street_address, city, state, postal_code, is_default, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.ShippingAddress, error) {
	q := `
SELECT ` + addressColumns + `
FROM shipping_addresses
WHERE user_id = $1
ORDER BY is_default DESC, created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ShippingAddress
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, id string) (*domain.ShippingAddress, error) {
	q := `
SELECT ` + addressColumns + `
FROM shipping_addresses
WHERE user_id = $1 AND id = $2
`
	a, err := scanAddress(r.pool.QueryRow(ctx, q, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *postgresRepo) Create(ctx context.Context, a domain.ShippingAddress) (*domain.ShippingAddress, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if a.IsDefault {
		if err := clearDefault(ctx, tx, a.UserID); err != nil {
			return nil, err
		}
	}

	q := `
INSERT INTO shipping_addresses (user_id, full_name, phone, street_address, city, state, postal_code, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + addressColumns + `
`
	created, err := scanAddress(tx.QueryRow(ctx, q,
		a.UserID, a.FullName, a.Phone, a.StreetAddress, a.City, a.State, a.PostalCode, a.IsDefault,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, a domain.ShippingAddress) (*domain.ShippingAddress, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if a.IsDefault {
		if err := clearDefault(ctx, tx, a.UserID); err != nil {
			return nil, err
		}
	}

	q := `
UPDATE shipping_addresses
SET full_name = $3,
    phone = $4,
    street_address = $5,
    city = $6,
    state = $7,
    postal_code = $8,
    is_default = $9,
    updated_at = now()
WHERE user_id = $1 AND id = $2
RETURNING ` + addressColumns + `
`
	updated, err := scanAddress(tx.QueryRow(ctx, q,
		a.UserID, a.ID, a.FullName, a.Phone, a.StreetAddress, a.City, a.State, a.PostalCode, a.IsDefault,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM shipping_addresses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// clearDefault drops the default flag from the user's other addresses so at
// most one address is the default.
func clearDefault(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `
UPDATE shipping_addresses
SET is_default = false,
    updated_at = now()
WHERE user_id = $1 AND is_default
`, userID)
	return err
}

func scanAddress(row pgx.Row) (*domain.ShippingAddress, error) {
	var a domain.ShippingAddress
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.FullName,
		&a.Phone,
		&a.StreetAddress,
		&a.City,
		&a.State,
		&a.PostalCode,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
