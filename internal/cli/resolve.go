package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// parseCycle parses a "YYYY-MM" cycle flag; empty means the current month.
func parseCycle(cycle string) (year, month int, err error) {
	if cycle == "" {
		now := time.Now().UTC()
		return now.Year(), int(now.Month()), nil
	}
	t, err := time.Parse("2006-01", cycle)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cycle %q, expected YYYY-MM", cycle)
	}
	return t.Year(), int(t.Month()), nil
}

func resolveProduct(ctx context.Context, app *App, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, fmt.Errorf("product slug is required")
	}
	p, err := app.Products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("product not found: %q", slug)
	}
	if app.Actor != nil && !app.Actor.CanAccessProduct(p.Slug) {
		return nil, fmt.Errorf("user %s has no access to product %q", app.Actor.Name, p.Slug)
	}
	return p, nil
}

func resolveEdition(ctx context.Context, app *App, productSlug, cycle string) (*domain.Product, *domain.Edition, error) {
	product, err := resolveProduct(ctx, app, productSlug)
	if err != nil {
		return nil, nil, err
	}
	year, month, err := parseCycle(cycle)
	if err != nil {
		return nil, nil, err
	}
	edition, err := app.Editions.GetByCycle(ctx, product.ID, year, month)
	if err != nil {
		return nil, nil, fmt.Errorf("no edition for %s %04d-%02d (run `flowrev edition start` first)", product.Slug, year, month)
	}
	return product, edition, nil
}

// resolveInsumo matches the input against the edition's insumos: exact ID,
// then ID prefix, then exact title (case-insensitive).
func resolveInsumo(ctx context.Context, app *App, editionID, input string) (*domain.Insumo, error) {
	if input == "" {
		return nil, fmt.Errorf("insumo ID is required")
	}

	insumos, err := app.Insumos.FetchInsumos(ctx, editionID)
	if err != nil {
		return nil, err
	}

	for _, i := range insumos {
		if i.ID == input {
			return i, nil
		}
	}

	var prefixMatches []*domain.Insumo
	for _, i := range insumos {
		if strings.HasPrefix(i.ID, input) {
			prefixMatches = append(prefixMatches, i)
		}
	}
	switch len(prefixMatches) {
	case 1:
		return prefixMatches[0], nil
	case 0:
	default:
		return nil, fmt.Errorf("insumo ID prefix %q is ambiguous (%d matches)", input, len(prefixMatches))
	}

	for _, i := range insumos {
		if strings.EqualFold(i.Title, input) {
			return i, nil
		}
	}

	return nil, fmt.Errorf("insumo not found: %q", input)
}
