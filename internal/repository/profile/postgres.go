package profile

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"sapphirus/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id::text, email, password_hash, full_name, role, avatar_url, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	q := `
INSERT INTO profiles (email, password_hash, full_name, role, avatar_url)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + profileColumns + `
`
	role := p.Role
	if role == "" {
		role = domain.RoleClient
	}
	created, err := scanProfile(r.pool.QueryRow(ctx, q,
		strings.ToLower(p.Email),
		p.PasswordHash,
		p.FullName,
		role,
		p.AvatarURL,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("profile repo: create email=%s error=%v", p.Email, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	q := `
SELECT ` + profileColumns + `
FROM profiles
WHERE id = $1
`
	return r.get(ctx, q, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	q := `
SELECT ` + profileColumns + `
FROM profiles
WHERE lower(email) = lower($1)
LIMIT 1
`
	return r.get(ctx, q, email)
}

func (r *postgresRepo) GetRole(ctx context.Context, id string) (domain.Role, error) {
	var role domain.Role
	err := r.pool.QueryRow(ctx, `SELECT role FROM profiles WHERE id = $1`, id).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		r.logger.Printf("profile repo: get role id=%s error=%v", id, err)
		return "", err
	}
	return role, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	q := `
UPDATE profiles
SET full_name = $2,
    avatar_url = $3
WHERE id = $1
RETURNING ` + profileColumns + `
`
	updated, err := scanProfile(r.pool.QueryRow(ctx, q, p.ID, p.FullName, p.AvatarURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("profile repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) get(ctx context.Context, q string, arg interface{}) (*domain.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(
		&p.ID,
		&p.Email,
		&p.PasswordHash,
		&p.FullName,
		&p.Role,
		&p.AvatarURL,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
