package order

import (
	"context"
	"time"

	"sapphirus/internal/domain"
)

type ItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

type CreateInput struct {
	UserID            string
	PaymentIntentID   string
	Status            domain.OrderStatus
	TotalAmount       float64
	ShippingAddressID *string
	ShippingCost      float64
	Items             []ItemInput
}

type Repository interface {
	// CreateWithItems writes the order row, its line items and the stock
	// decrements in a single transaction. Any failure rolls back everything.
	// A duplicate payment intent id yields domain.ErrAlreadyExists.
	CreateWithItems(ctx context.Context, in CreateInput) (*domain.Order, error)
	GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error)
	// ExistsRecent reports whether the user already has an order with this
	// exact total created within the window.
	ExistsRecent(ctx context.Context, userID string, total float64, window time.Duration) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}
