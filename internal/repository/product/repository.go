package product

import (
	"context"

	"sapphirus/internal/domain"
)

// ListFilter narrows catalog listings. Zero values mean no filtering.
type ListFilter struct {
	Category string
	Search   string
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
