package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teuprojeto/flowrev/internal/db"
	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/repository"
)

// ErrEditionExists is returned when a product already has an edition for
// the requested cycle.
var ErrEditionExists = errors.New("edition already exists for cycle")

type editionService struct {
	editions repository.EditionRepo
	insumos  repository.InsumoRepo
	types    repository.InsumoTypeRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewEditionService(
	editions repository.EditionRepo,
	insumos repository.InsumoRepo,
	types repository.InsumoTypeRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) EditionService {
	return &editionService{
		editions: editions,
		insumos:  insumos,
		types:    types,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *editionService) Start(ctx context.Context, productID string, year, month int) (edition *domain.Edition, err error) {
	startedAt := time.Now().UTC()
	seeded := 0
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "start-edition",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"product_id": productID, "year": year, "month": month, "seeded": seeded},
		})
	}()

	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month out of range: %d", month)
	}

	_, err = s.editions.GetByCycle(ctx, productID, year, month)
	if err == nil {
		return nil, ErrEditionExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking cycle: %w", err)
	}

	activeTypes, err := s.types.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing insumo types: %w", err)
	}

	now := time.Now().UTC()
	edition = &domain.Edition{
		ID:        uuid.New().String(),
		ProductID: productID,
		Month:     month,
		Year:      year,
		Phase:     domain.PhaseKickoff,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEditions := repository.NewSQLiteEditionRepo(tx)
		txInsumos := repository.NewSQLiteInsumoRepo(tx)

		if err := txEditions.Create(ctx, edition); err != nil {
			return fmt.Errorf("creating edition: %w", err)
		}
		for _, ty := range activeTypes {
			if err := txInsumos.Create(ctx, newSeedInsumo(edition.ID, ty, now)); err != nil {
				return fmt.Errorf("seeding insumo '%s': %w", ty.Name, err)
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		seeded = 0
		return nil, err
	}
	return edition, nil
}

// Sync creates insumos for active types that gained no insumo when the
// edition started. Existing insumos are never touched.
func (s *editionService) Sync(ctx context.Context, editionID string) (created int, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "sync-edition",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"edition_id": editionID, "created": created},
		})
	}()

	edition, err := s.editions.GetByID(ctx, editionID)
	if err != nil {
		return 0, err
	}
	activeTypes, err := s.types.List(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("listing insumo types: %w", err)
	}
	existing, err := s.insumos.ListByEdition(ctx, editionID)
	if err != nil {
		return 0, fmt.Errorf("listing insumos: %w", err)
	}
	covered := make(map[string]bool, len(existing))
	for _, i := range existing {
		covered[i.TypeID] = true
	}

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInsumos := repository.NewSQLiteInsumoRepo(tx)
		for _, ty := range activeTypes {
			if covered[ty.ID] {
				continue
			}
			if err := txInsumos.Create(ctx, newSeedInsumo(edition.ID, ty, now)); err != nil {
				return fmt.Errorf("seeding insumo '%s': %w", ty.Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (s *editionService) GetByID(ctx context.Context, id string) (*domain.Edition, error) {
	return s.editions.GetByID(ctx, id)
}

func (s *editionService) GetByCycle(ctx context.Context, productID string, year, month int) (*domain.Edition, error) {
	return s.editions.GetByCycle(ctx, productID, year, month)
}

func (s *editionService) ListByProduct(ctx context.Context, productID string) ([]*domain.Edition, error) {
	return s.editions.ListByProduct(ctx, productID)
}

func (s *editionService) SetPhase(ctx context.Context, id string, phase domain.ProductionPhase) error {
	return s.editions.SetPhase(ctx, id, phase)
}

func (s *editionService) Completion(ctx context.Context, editionID string) (float64, error) {
	insumos, err := s.insumos.ListByEdition(ctx, editionID)
	if err != nil {
		return 0, err
	}
	return domain.CompletionPct(insumos), nil
}

func newSeedInsumo(editionID string, ty *domain.InsumoType, now time.Time) *domain.Insumo {
	return &domain.Insumo{
		ID:        uuid.New().String(),
		EditionID: editionID,
		TypeID:    ty.ID,
		Title:     ty.Name,
		Status:    domain.StatusNotStarted,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
