package address

import (
	"context"

	"sapphirus/internal/domain"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.ShippingAddress, error)
	GetByID(ctx context.Context, userID, id string) (*domain.ShippingAddress, error)
	Create(ctx context.Context, a domain.ShippingAddress) (*domain.ShippingAddress, error)
	Update(ctx context.Context, a domain.ShippingAddress) (*domain.ShippingAddress, error)
	Delete(ctx context.Context, userID, id string) error
}
