package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/repository"
)

type productService struct {
	products repository.ProductRepo
}

func NewProductService(products repository.ProductRepo) ProductService {
	return &productService{products: products}
}

func (s *productService) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Slug == "" {
		p.Slug = domain.Slugify(p.Name)
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.products.Create(ctx, p)
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

func (s *productService) List(ctx context.Context, includeInactive bool) ([]*domain.Product, error) {
	return s.products.List(ctx, includeInactive)
}

func (s *productService) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	return s.products.Update(ctx, p)
}
