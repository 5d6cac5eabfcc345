package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"goerp/internal/domain"
)

type productService struct {
	repo domain.ProductRepository
}

// NewProductService creates a ProductService with the given repository.
func NewProductService(repo domain.ProductRepository) domain.ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.repo.Create(ctx, p)
}

func (s *productService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *productService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Product, int, error) {
	return s.repo.List(ctx, params)
}

func (s *productService) Update(ctx context.Context, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, p)
}

func (s *productService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateProduct(p *domain.Product) error {
	var problems []string
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(p.SKU) == "" {
		problems = append(problems, "sku is required")
	}
	if p.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if p.Stock < 0 {
		problems = append(problems, "stock must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid product: %s", strings.Join(problems, "; "))
	}
	return nil
}
