package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teuprojeto/flowrev/internal/db"
	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/repository"
	"github.com/teuprojeto/flowrev/internal/testutil"
)

type editionEnv struct {
	db       *sql.DB
	product  *domain.Product
	types    repository.InsumoTypeRepo
	insumos  repository.InsumoRepo
	editions repository.EditionRepo
}

func editionEnvSetup(t *testing.T, typeNames ...string) *editionEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	products := repository.NewSQLiteProductRepo(database)
	types := repository.NewSQLiteInsumoTypeRepo(database)

	product := testutil.NewTestProduct("Monthly Report")
	require.NoError(t, products.Create(ctx, product))
	for n, name := range typeNames {
		ty := testutil.NewTestInsumoType(name, testutil.WithTypeSortOrder(n))
		require.NoError(t, types.Create(ctx, ty))
	}

	return &editionEnv{
		db:       database,
		product:  product,
		types:    types,
		insumos:  repository.NewSQLiteInsumoRepo(database),
		editions: repository.NewSQLiteEditionRepo(database),
	}
}

func (e *editionEnv) service(uow db.UnitOfWork, observers ...UseCaseObserver) EditionService {
	return NewEditionService(e.editions, e.insumos, e.types, uow, observers...)
}

func TestEditionService_Start_SeedsOneInsumoPerActiveType(t *testing.T) {
	env := editionEnvSetup(t, "Cover Story", "Market Numbers", "Editorial")
	ctx := context.Background()

	inactive := testutil.NewTestInsumoType("Retired Section", testutil.WithTypeInactive())
	require.NoError(t, env.types.Create(ctx, inactive))

	svc := env.service(testutil.NewTestUoW(env.db))
	edition, err := svc.Start(ctx, env.product.ID, 2026, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseKickoff, edition.Phase)

	insumos, err := env.insumos.ListByEdition(ctx, edition.ID)
	require.NoError(t, err)
	require.Len(t, insumos, 3, "inactive types are not seeded")

	titles := make([]string, 0, len(insumos))
	for _, i := range insumos {
		titles = append(titles, i.Title)
		assert.Equal(t, domain.StatusNotStarted, i.Status)
		assert.Equal(t, int64(1), i.Version)
	}
	assert.ElementsMatch(t, []string{"Cover Story", "Market Numbers", "Editorial"}, titles)
}

func TestEditionService_Start_DuplicateCycleRejected(t *testing.T) {
	env := editionEnvSetup(t, "Cover Story")
	ctx := context.Background()
	svc := env.service(testutil.NewTestUoW(env.db))

	_, err := svc.Start(ctx, env.product.ID, 2026, 4)
	require.NoError(t, err)

	_, err = svc.Start(ctx, env.product.ID, 2026, 4)
	assert.ErrorIs(t, err, ErrEditionExists)
}

func TestEditionService_Start_MonthOutOfRange(t *testing.T) {
	env := editionEnvSetup(t, "Cover Story")
	svc := env.service(testutil.NewTestUoW(env.db))

	_, err := svc.Start(context.Background(), env.product.ID, 2026, 13)
	assert.Error(t, err)
}

func TestEditionService_Start_SeedFailureRollsBackEdition(t *testing.T) {
	env := editionEnvSetup(t, "Cover Story", "Market Numbers")
	ctx := context.Background()

	// Exec 1 creates the edition, 2 the first insumo; failing on 3 leaves
	// a half-seeded cycle that must roll back wholesale.
	uow := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 3, Err: errors.New("disk full")}
	svc := env.service(uow)

	_, err := svc.Start(ctx, env.product.ID, 2026, 4)
	require.Error(t, err)

	_, err = env.editions.GetByCycle(ctx, env.product.ID, 2026, 4)
	assert.ErrorIs(t, err, repository.ErrNotFound, "edition row must not survive a failed seed")

	var count int
	require.NoError(t, env.db.QueryRow(`SELECT COUNT(*) FROM insumos`).Scan(&count))
	assert.Zero(t, count, "no orphan insumos after rollback")
}

func TestEditionService_Sync_BackfillsLaterTypes(t *testing.T) {
	env := editionEnvSetup(t, "Cover Story")
	ctx := context.Background()
	svc := env.service(testutil.NewTestUoW(env.db))

	edition, err := svc.Start(ctx, env.product.ID, 2026, 4)
	require.NoError(t, err)

	require.NoError(t, env.types.Create(ctx, testutil.NewTestInsumoType("Late Addition")))

	created, err := svc.Sync(ctx, edition.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	insumos, err := env.insumos.ListByEdition(ctx, edition.ID)
	require.NoError(t, err)
	assert.Len(t, insumos, 2)

	// A second sync finds nothing to do.
	created, err = svc.Sync(ctx, edition.ID)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestEditionService_Completion(t *testing.T) {
	env := editionEnvSetup(t, "Cover Story", "Market Numbers", "Editorial", "Charts")
	ctx := context.Background()
	svc := env.service(testutil.NewTestUoW(env.db))

	edition, err := svc.Start(ctx, env.product.ID, 2026, 4)
	require.NoError(t, err)

	insumos, err := env.insumos.ListByEdition(ctx, edition.ID)
	require.NoError(t, err)
	insumos[0].Status = domain.StatusApproved
	require.NoError(t, env.insumos.Update(ctx, insumos[0]))

	pct, err := svc.Completion(ctx, edition.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, pct, 0.001)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func TestEditionService_Start_EmitsUseCaseEvent(t *testing.T) {
	env := editionEnvSetup(t, "Cover Story", "Market Numbers")
	obs := &recordingObserver{}
	svc := env.service(testutil.NewTestUoW(env.db), obs)

	_, err := svc.Start(context.Background(), env.product.ID, 2026, 4)
	require.NoError(t, err)

	require.Len(t, obs.events, 1)
	event := obs.events[0]
	assert.Equal(t, "start-edition", event.Name)
	assert.True(t, event.Success)
	assert.Equal(t, 2, event.Fields["seeded"])
}
