package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teuprojeto/flowrev/internal/db"
	"github.com/teuprojeto/flowrev/internal/importer"
	"github.com/teuprojeto/flowrev/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// ImportCatalog loads, validates, and persists a catalog file atomically.
// Rows whose slug or email already exists are reused rather than
// duplicated, so re-importing the same file is safe.
func (s *importService) ImportCatalog(ctx context.Context, path string) (summary *ImportSummary, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		fields := map[string]any{"path": path}
		if summary != nil {
			fields["products"] = summary.Products
			fields["types"] = summary.Types
			fields["users"] = summary.Users
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-catalog",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	schema, err := importer.LoadCatalogSchema(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if errs := importer.ValidateCatalogSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	cat := importer.Convert(schema)

	sum := &ImportSummary{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		products := repository.NewSQLiteProductRepo(tx)
		types := repository.NewSQLiteInsumoTypeRepo(tx)
		users := repository.NewSQLiteUserRepo(tx)

		// Slug → ID over both imported and pre-existing products, for
		// resolving access grants below.
		productIDs := make(map[string]string, len(cat.Products))

		for _, p := range cat.Products {
			existing, err := products.GetBySlug(ctx, p.Slug)
			if err == nil {
				productIDs[p.Slug] = existing.ID
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("checking product %s: %w", p.Slug, err)
			}
			if err := products.Create(ctx, p); err != nil {
				return fmt.Errorf("creating product %s: %w", p.Slug, err)
			}
			productIDs[p.Slug] = p.ID
			sum.Products++
		}

		for _, ty := range cat.Types {
			_, err := types.GetBySlug(ctx, ty.Slug)
			if err == nil {
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("checking insumo type %s: %w", ty.Slug, err)
			}
			if err := types.Create(ctx, ty); err != nil {
				return fmt.Errorf("creating insumo type %s: %w", ty.Slug, err)
			}
			sum.Types++
		}

		for _, u := range cat.Users {
			userID := u.ID
			existing, err := users.GetByEmail(ctx, u.Email)
			switch {
			case err == nil:
				userID = existing.ID
			case errors.Is(err, repository.ErrNotFound):
				if err := users.Create(ctx, u); err != nil {
					return fmt.Errorf("creating user %s: %w", u.Email, err)
				}
				sum.Users++
			default:
				return fmt.Errorf("checking user %s: %w", u.Email, err)
			}

			for _, slug := range cat.Grants[u.Email] {
				productID, ok := productIDs[slug]
				if !ok {
					return fmt.Errorf("granting %s access: unknown product %q", u.Email, slug)
				}
				if err := users.GrantProduct(ctx, userID, productID); err != nil {
					return fmt.Errorf("granting %s access to %s: %w", u.Email, slug, err)
				}
				sum.Grants++
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}
