package service

import (
	"context"
	"time"

	"github.com/teuprojeto/flowrev/internal/domain"
)

type ProductService interface {
	Create(ctx context.Context, p *domain.Product) error
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
}

type InsumoTypeService interface {
	Create(ctx context.Context, it *domain.InsumoType) error
	List(ctx context.Context, includeInactive bool) ([]*domain.InsumoType, error)
	Update(ctx context.Context, it *domain.InsumoType) error
}

type EditionService interface {
	// Start opens a product's monthly cycle: it creates the edition and
	// seeds one insumo per active insumo type, atomically.
	Start(ctx context.Context, productID string, year, month int) (*domain.Edition, error)
	// Sync backfills insumos for types activated after the edition
	// started. Returns the number of insumos created.
	Sync(ctx context.Context, editionID string) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Edition, error)
	GetByCycle(ctx context.Context, productID string, year, month int) (*domain.Edition, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Edition, error)
	SetPhase(ctx context.Context, id string, phase domain.ProductionPhase) error
	Completion(ctx context.Context, editionID string) (float64, error)
}

// InsumoService is the store-of-record behind the board. Its update methods
// satisfy the reconciler's backend port: they return the fresh server row so
// optimistic local state can be reconciled against it.
type InsumoService interface {
	FetchInsumos(ctx context.Context, editionID string) ([]*domain.Insumo, error)
	UpdateInsumoStatus(ctx context.Context, id string, status domain.InsumoStatus, adjustmentReason string) (*domain.Insumo, error)
	UpdateInsumoDate(ctx context.Context, id string, due time.Time) (*domain.Insumo, error)
	UpdateInsumoContent(ctx context.Context, id string, content, notes *string) (*domain.Insumo, error)
	GetByID(ctx context.Context, id string) (*domain.Insumo, error)
	AddAttachment(ctx context.Context, a *domain.Attachment) error
	DeleteAttachment(ctx context.Context, attachmentID string) error
	SetTags(ctx context.Context, insumoID string, tagIDs []string) error
	SetResponsibles(ctx context.Context, insumoID string, userIDs []string) error
}

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	GrantProduct(ctx context.Context, userID, productID string) error
	RevokeProduct(ctx context.Context, userID, productID string) error
}

// ImportSummary reports what a catalog import wrote, counting only rows
// that did not already exist.
type ImportSummary struct {
	Products int
	Types    int
	Users    int
	Grants   int
}

// ImportService bulk-loads a catalog file (products, insumo types, users
// and their product access) in a single transaction.
type ImportService interface {
	ImportCatalog(ctx context.Context, path string) (*ImportSummary, error)
}

// EditionStats is the dashboard aggregate for one edition.
type EditionStats struct {
	EditionID     string
	ProductID     string
	Year          int
	Month         int
	Phase         domain.ProductionPhase
	Total         int
	Approved      int
	Pending       int
	Delayed       int
	CompletionPct float64
}

type DashboardService interface {
	EditionStats(ctx context.Context, editionID string, today time.Time) (*EditionStats, error)
	ProductOverview(ctx context.Context, productID string, today time.Time) ([]*EditionStats, error)
}
