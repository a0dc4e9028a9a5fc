package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/repository"
)

type insumoTypeService struct {
	types repository.InsumoTypeRepo
}

func NewInsumoTypeService(types repository.InsumoTypeRepo) InsumoTypeService {
	return &insumoTypeService{types: types}
}

func (s *insumoTypeService) Create(ctx context.Context, it *domain.InsumoType) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.Slug == "" {
		it.Slug = domain.Slugify(it.Name)
	}
	it.CreatedAt = time.Now().UTC()
	return s.types.Create(ctx, it)
}

func (s *insumoTypeService) List(ctx context.Context, includeInactive bool) ([]*domain.InsumoType, error) {
	return s.types.List(ctx, includeInactive)
}

func (s *insumoTypeService) Update(ctx context.Context, it *domain.InsumoType) error {
	return s.types.Update(ctx, it)
}
