package cart

import (
	"context"

	"sapphirus/internal/domain"
)

// Repository stores one cart per owner (an authenticated user id or a guest
// cart id). The cart survives process restarts but is advisory state; it is
// reconciled against live stock only at checkout.
type Repository interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Save(ctx context.Context, ownerID string, cart domain.Cart) error
	Clear(ctx context.Context, ownerID string) error
}
