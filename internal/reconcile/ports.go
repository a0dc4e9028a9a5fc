package reconcile

import (
	"context"
	"time"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// Backend is the store-of-record port. The reconciler treats it as a black
// box: update-by-id writes plus one read used for refetches.
type Backend interface {
	FetchInsumos(ctx context.Context, editionID string) ([]*domain.Insumo, error)
	UpdateInsumoStatus(ctx context.Context, id string, status domain.InsumoStatus, adjustmentReason string) (*domain.Insumo, error)
	UpdateInsumoDate(ctx context.Context, id string, due time.Time) (*domain.Insumo, error)
	UpdateInsumoContent(ctx context.Context, id string, content, notes *string) (*domain.Insumo, error)
}

// StaleListener is told when aggregate views derived from an insumo's
// status (dashboard counts, completion percentages) have gone stale. The
// reconciler only signals; recomputation is the listener's business.
type StaleListener interface {
	MarkStale(editionID string)
}

// NoopStaleListener ignores all signals.
type NoopStaleListener struct{}

func (NoopStaleListener) MarkStale(string) {}
