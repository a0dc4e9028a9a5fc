package repository

import (
	"context"

	"github.com/teuprojeto/flowrev/internal/domain"
)

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

type InsumoTypeRepo interface {
	Create(ctx context.Context, it *domain.InsumoType) error
	GetByID(ctx context.Context, id string) (*domain.InsumoType, error)
	GetBySlug(ctx context.Context, slug string) (*domain.InsumoType, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.InsumoType, error)
	Update(ctx context.Context, it *domain.InsumoType) error
	Delete(ctx context.Context, id string) error
}

type EditionRepo interface {
	Create(ctx context.Context, e *domain.Edition) error
	GetByID(ctx context.Context, id string) (*domain.Edition, error)
	GetByCycle(ctx context.Context, productID string, year, month int) (*domain.Edition, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Edition, error)
	SetPhase(ctx context.Context, id string, phase domain.ProductionPhase) error
	Delete(ctx context.Context, id string) error
}

type InsumoRepo interface {
	Create(ctx context.Context, i *domain.Insumo) error
	GetByID(ctx context.Context, id string) (*domain.Insumo, error)
	ListByEdition(ctx context.Context, editionID string) ([]*domain.Insumo, error)
	Update(ctx context.Context, i *domain.Insumo) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, editionID string) (map[domain.InsumoStatus]int, error)
	AddAttachment(ctx context.Context, a *domain.Attachment) error
	DeleteAttachment(ctx context.Context, attachmentID string) error
	SetTags(ctx context.Context, insumoID string, tagIDs []string) error
	SetResponsibles(ctx context.Context, insumoID string, userIDs []string) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	GrantProduct(ctx context.Context, userID, productID string) error
	RevokeProduct(ctx context.Context, userID, productID string) error
}

type TagRepo interface {
	Create(ctx context.Context, tag *domain.Tag) error
	List(ctx context.Context) ([]*domain.Tag, error)
	Delete(ctx context.Context, id string) error
}
