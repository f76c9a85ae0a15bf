package httpserver

import (
	"context"

	"sapphirus/internal/domain"
	"sapphirus/internal/images"
	"sapphirus/internal/metrics"
	"sapphirus/internal/payments"
	authsvc "sapphirus/internal/service/auth"
	cartsvc "sapphirus/internal/service/cart"
	catalogsvc "sapphirus/internal/service/catalog"
	ordersvc "sapphirus/internal/service/order"
	shippingsvc "sapphirus/internal/service/shipping"
)

type AuthService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (*domain.Profile, string, error)
	Logout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (string, error)
	ProfileByID(ctx context.Context, id string) (*domain.Profile, error)
	RoleByID(ctx context.Context, id string) (domain.Role, error)
	AccessTTLSeconds() int
}

type CatalogService interface {
	List(ctx context.Context, category, search string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in catalogsvc.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in catalogsvc.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type CartService interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	AddItem(ctx context.Context, ownerID string, in cartsvc.AddItemInput) (*domain.Cart, error)
	RemoveItem(ctx context.Context, ownerID, productID string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, ownerID, productID string, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, ownerID string) error
}

type ShippingService interface {
	List(ctx context.Context, userID string) ([]domain.ShippingAddress, error)
	Get(ctx context.Context, userID, id string) (*domain.ShippingAddress, error)
	Create(ctx context.Context, userID string, in shippingsvc.AddressInput) (*domain.ShippingAddress, error)
	Update(ctx context.Context, userID, id string, in shippingsvc.AddressInput) (*domain.ShippingAddress, error)
	Delete(ctx context.Context, userID, id string) error
	CostFor(ctx context.Context, userID, addressID string) (float64, error)
}

type OrderService interface {
	Finalize(ctx context.Context, in ordersvc.FinalizeInput) (*ordersvc.FinalizeResult, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// Deps carries everything the router needs.
type Deps struct {
	AuthSvc     AuthService
	CatalogSvc  CatalogService
	CartSvc     CartService
	ShippingSvc ShippingService
	OrderSvc    OrderService

	Gateway       payments.Gateway
	WebhookSecret string
	Uploader      images.Uploader
	Metrics       *metrics.Recorder
}
