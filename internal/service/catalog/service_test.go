package catalog

import (
	"context"
	"testing"

	"sapphirus/internal/domain"
	productrepo "sapphirus/internal/repository/product"
)

type stubProductRepo struct {
	products   []domain.Product
	product    *domain.Product
	lastFilter productrepo.ListFilter
	err        error
}

func (s *stubProductRepo) List(_ context.Context, filter productrepo.ListFilter) ([]domain.Product, error) {
	s.lastFilter = filter
	return s.products, s.err
}

func (s *stubProductRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	if s.product == nil {
		return nil, domain.ErrNotFound
	}
	return s.product, s.err
}

func (s *stubProductRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, s.err
}

func (s *stubProductRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, s.err
}

func (s *stubProductRepo) Delete(_ context.Context, _ string) error {
	return s.err
}

func TestList_TrimsFilters(t *testing.T) {
	repo := &stubProductRepo{}
	svc := New(repo)

	if _, err := svc.List(context.Background(), "  playeras ", " logo "); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastFilter.Category != "playeras" || repo.lastFilter.Search != "logo" {
		t.Fatalf("filters not trimmed: %+v", repo.lastFilter)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := New(&stubProductRepo{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, ProductInput{Name: "", Price: 10}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := svc.Create(ctx, ProductInput{Name: "Playera", Price: -1}); err == nil {
		t.Fatal("expected error for negative price")
	}
	if _, err := svc.Create(ctx, ProductInput{Name: "Playera", Price: 10, Stock: -5}); err == nil {
		t.Fatal("expected error for negative stock")
	}

	p, err := svc.Create(ctx, ProductInput{Name: "Playera", Price: 349, Stock: 10, Category: "playeras"})
	if err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if p.Name != "Playera" || p.Price != 349 {
		t.Fatalf("unexpected product: %+v", p)
	}
}
