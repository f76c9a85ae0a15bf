package cart

import (
	"context"
	"errors"
	"strings"

	"sapphirus/internal/domain"
	cartrepo "sapphirus/internal/repository/cart"
	"github.com/google/uuid"
)

// Service maintains the shopper's in-progress selection. Quantities are
// advisory against live stock; callers validate at checkout checkpoints.
type Service struct {
	repo cartrepo.Repository
}

func New(repo cartrepo.Repository) *Service {
	return &Service{repo: repo}
}

type AddItemInput struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

func (s *Service) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	return s.repo.Get(ctx, ownerID)
}

// AddItem merges by product id: an existing entry has its quantity raised by
// the incoming quantity, otherwise a new entry is appended.
func (s *Service) AddItem(ctx context.Context, ownerID string, in AddItemInput) (*domain.Cart, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, errors.New("productId required")
	}
	if in.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	cart, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == in.ProductID {
			cart.Items[i].Quantity += in.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:        uuid.NewString(),
			ProductID: in.ProductID,
			Name:      in.Name,
			Price:     in.Price,
			Quantity:  in.Quantity,
			Image:     in.Image,
		})
	}

	return s.save(ctx, ownerID, cart)
}

func (s *Service) RemoveItem(ctx context.Context, ownerID, productID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items

	return s.save(ctx, ownerID, cart)
}

// UpdateQuantity sets the entry's quantity verbatim; validation against live
// stock is the caller's concern.
func (s *Service) UpdateQuantity(ctx context.Context, ownerID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, ownerID, productID)
	}

	cart, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrNotFound
	}

	return s.save(ctx, ownerID, cart)
}

// Clear resets the cart to empty; called after a confirmed order.
func (s *Service) Clear(ctx context.Context, ownerID string) error {
	return s.repo.Clear(ctx, ownerID)
}

func (s *Service) save(ctx context.Context, ownerID string, cart *domain.Cart) (*domain.Cart, error) {
	cart.Total = Total(cart.Items)
	if err := s.repo.Save(ctx, ownerID, *cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Total recomputes the running total over the current item list.
func Total(items []domain.CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}
