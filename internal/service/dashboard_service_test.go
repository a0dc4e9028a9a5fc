package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/repository"
	"github.com/teuprojeto/flowrev/internal/testutil"
)

func TestDashboardService_EditionStats(t *testing.T) {
	env := editionEnvSetup(t, "Cover Story")
	ctx := context.Background()
	today := time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)

	ty, err := env.types.GetBySlug(ctx, "cover-story")
	require.NoError(t, err)
	edition := testutil.NewTestEdition(env.product.ID, 2026, 4, testutil.WithPhase(domain.PhaseBuild))
	require.NoError(t, env.editions.Create(ctx, edition))

	overdue := today.AddDate(0, 0, -3)
	upcoming := today.AddDate(0, 0, 3)
	seed := []*domain.Insumo{
		testutil.NewTestInsumo(edition.ID, ty.ID, "Approved", testutil.WithStatus(domain.StatusApproved), testutil.WithDueDate(overdue)),
		testutil.NewTestInsumo(edition.ID, ty.ID, "Late", testutil.WithStatus(domain.StatusInProgress), testutil.WithDueDate(overdue)),
		testutil.NewTestInsumo(edition.ID, ty.ID, "On Track", testutil.WithStatus(domain.StatusInProgress), testutil.WithDueDate(upcoming)),
		testutil.NewTestInsumo(edition.ID, ty.ID, "Unscheduled"),
	}
	for _, i := range seed {
		require.NoError(t, env.insumos.Create(ctx, i))
	}

	svc := NewDashboardService(env.editions, env.insumos)
	stats, err := svc.EditionStats(ctx, edition.ID, today)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, 1, stats.Delayed, "approved and unscheduled items are never delayed")
	assert.Equal(t, domain.PhaseBuild, stats.Phase)
	assert.InDelta(t, 25.0, stats.CompletionPct, 0.001)
}

func TestDashboardService_EditionStats_NotFound(t *testing.T) {
	env := editionEnvSetup(t)
	svc := NewDashboardService(env.editions, env.insumos)

	_, err := svc.EditionStats(context.Background(), "nonexistent", time.Now().UTC())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDashboardService_ProductOverview(t *testing.T) {
	env := editionEnvSetup(t, "Cover Story")
	ctx := context.Background()
	today := time.Now().UTC()

	for month := 1; month <= 3; month++ {
		require.NoError(t, env.editions.Create(ctx,
			testutil.NewTestEdition(env.product.ID, 2026, month)))
	}

	svc := NewDashboardService(env.editions, env.insumos)
	overview, err := svc.ProductOverview(ctx, env.product.ID, today)
	require.NoError(t, err)
	require.Len(t, overview, 3)

	// ListByProduct returns newest cycles first.
	assert.Equal(t, 3, overview[0].Month)
	assert.Equal(t, 1, overview[2].Month)
	for _, stats := range overview {
		assert.Zero(t, stats.Total, "empty editions report zero insumos")
		assert.Zero(t, stats.CompletionPct)
	}
}
