package catalog

import (
	"context"
	"errors"
	"strings"

	"sapphirus/internal/domain"
	productrepo "sapphirus/internal/repository/product"
)

// Service exposes the product catalog to the storefront and the back-office.
type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Size        string   `json:"size"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name required")
	}
	if in.Price < 0 {
		return errors.New("price must not be negative")
	}
	if in.Stock < 0 {
		return errors.New("stock must not be negative")
	}
	return nil
}

func (s *Service) List(ctx context.Context, category, search string) ([]domain.Product, error) {
	return s.repo.List(ctx, productrepo.ListFilter{
		Category: strings.TrimSpace(category),
		Search:   strings.TrimSpace(search),
	})
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Size:        in.Size,
		Stock:       in.Stock,
		Images:      in.Images,
	})
}

func (s *Service) Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, domain.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Size:        in.Size,
		Stock:       in.Stock,
		Images:      in.Images,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
