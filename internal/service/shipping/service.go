package shipping

import (
	"context"
	"errors"
	"strings"

	"sapphirus/internal/domain"
	addressrepo "sapphirus/internal/repository/address"
)

// Service manages shipping addresses and derives fees from them.
type Service struct {
	repo addressrepo.Repository
}

func New(repo addressrepo.Repository) *Service {
	return &Service{repo: repo}
}

type AddressInput struct {
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
	IsDefault     bool   `json:"isDefault"`
}

func (in AddressInput) validate() error {
	if strings.TrimSpace(in.FullName) == "" {
		return errors.New("fullName required")
	}
	if strings.TrimSpace(in.StreetAddress) == "" {
		return errors.New("streetAddress required")
	}
	if strings.TrimSpace(in.City) == "" {
		return errors.New("city required")
	}
	if strings.TrimSpace(in.State) == "" {
		return errors.New("state required")
	}
	if strings.TrimSpace(in.PostalCode) == "" {
		return errors.New("postalCode required")
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.ShippingAddress, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*domain.ShippingAddress, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *Service) Create(ctx context.Context, userID string, in AddressInput) (*domain.ShippingAddress, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.ShippingAddress{
		UserID:        userID,
		FullName:      in.FullName,
		Phone:         in.Phone,
		StreetAddress: in.StreetAddress,
		City:          in.City,
		State:         in.State,
		PostalCode:    in.PostalCode,
		IsDefault:     in.IsDefault,
	})
}

func (s *Service) Update(ctx context.Context, userID, id string, in AddressInput) (*domain.ShippingAddress, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, domain.ShippingAddress{
		ID:            id,
		UserID:        userID,
		FullName:      in.FullName,
		Phone:         in.Phone,
		StreetAddress: in.StreetAddress,
		City:          in.City,
		State:         in.State,
		PostalCode:    in.PostalCode,
		IsDefault:     in.IsDefault,
	})
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// CostFor returns the flat fee for one of the user's saved addresses.
func (s *Service) CostFor(ctx context.Context, userID, addressID string) (float64, error) {
	addr, err := s.repo.GetByID(ctx, userID, addressID)
	if err != nil {
		return 0, err
	}
	return ResolveCost(addr.State), nil
}
