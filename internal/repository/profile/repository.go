package profile

import (
	"context"

	"sapphirus/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, p domain.Profile) (*domain.Profile, error)
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	// GetRole returns only the role column; the authorization gate calls this
	// on every cache miss.
	GetRole(ctx context.Context, id string) (domain.Role, error)
	Update(ctx context.Context, p domain.Profile) (*domain.Profile, error)
}
