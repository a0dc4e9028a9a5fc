package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/testutil"
)

type insumoTestEnv struct {
	insumos  *SQLiteInsumoRepo
	users    *SQLiteUserRepo
	tags     *SQLiteTagRepo
	edition  *domain.Edition
	insumoTy *domain.InsumoType
}

func insumoTestSetup(t *testing.T) *insumoTestEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	productRepo := NewSQLiteProductRepo(db)
	typeRepo := NewSQLiteInsumoTypeRepo(db)
	editionRepo := NewSQLiteEditionRepo(db)

	product := testutil.NewTestProduct("Monthly Report")
	require.NoError(t, productRepo.Create(ctx, product))

	ty := testutil.NewTestInsumoType("Cover Story")
	require.NoError(t, typeRepo.Create(ctx, ty))

	edition := testutil.NewTestEdition(product.ID, 2026, 3)
	require.NoError(t, editionRepo.Create(ctx, edition))

	return &insumoTestEnv{
		insumos:  NewSQLiteInsumoRepo(db),
		users:    NewSQLiteUserRepo(db),
		tags:     NewSQLiteTagRepo(db),
		edition:  edition,
		insumoTy: ty,
	}
}

func TestInsumoRepo_CreateAndGetByID(t *testing.T) {
	env := insumoTestSetup(t)
	ctx := context.Background()

	due := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	i := testutil.NewTestInsumo(env.edition.ID, env.insumoTy.ID, "March Cover",
		testutil.WithContent("draft text"),
		testutil.WithDueDate(due),
		testutil.WithVersion(2),
	)
	require.NoError(t, env.insumos.Create(ctx, i))

	fetched, err := env.insumos.GetByID(ctx, i.ID)
	require.NoError(t, err)
	assert.Equal(t, "March Cover", fetched.Title)
	assert.Equal(t, domain.StatusNotStarted, fetched.Status)
	assert.Equal(t, "draft text", fetched.Content)
	assert.Equal(t, int64(2), fetched.Version)
	require.NotNil(t, fetched.DueDate)
	assert.Equal(t, "2026-03-20", domain.DayKey(*fetched.DueDate))
}

func TestInsumoRepo_GetByID_NotFound(t *testing.T) {
	env := insumoTestSetup(t)

	_, err := env.insumos.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsumoRepo_Update_PersistsWorkflowFields(t *testing.T) {
	env := insumoTestSetup(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Ana", testutil.WithRole(domain.RoleSupervisor))
	require.NoError(t, env.users.Create(ctx, user))

	i := testutil.NewTestInsumo(env.edition.ID, env.insumoTy.ID, "March Cover")
	require.NoError(t, env.insumos.Create(ctx, i))

	submitted := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	i.Status = domain.StatusSubmitted
	i.Content = "final text"
	i.SubmittedBy = user.ID
	i.SubmittedAt = &submitted
	i.Version = 5
	require.NoError(t, env.insumos.Update(ctx, i))

	fetched, err := env.insumos.GetByID(ctx, i.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, fetched.Status)
	assert.Equal(t, user.ID, fetched.SubmittedBy)
	require.NotNil(t, fetched.SubmittedAt)
	assert.Equal(t, submitted, *fetched.SubmittedAt)
	assert.Equal(t, int64(5), fetched.Version)
}

func TestInsumoRepo_Update_NotFound(t *testing.T) {
	env := insumoTestSetup(t)

	ghost := testutil.NewTestInsumo(env.edition.ID, env.insumoTy.ID, "Ghost")
	err := env.insumos.Update(context.Background(), ghost)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsumoRepo_ListByEdition_PopulatesRelations(t *testing.T) {
	env := insumoTestSetup(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Bruno")
	require.NoError(t, env.users.Create(ctx, user))
	tag := testutil.NewTestTag("urgent", "#ff0000")
	require.NoError(t, env.tags.Create(ctx, tag))

	i := testutil.NewTestInsumo(env.edition.ID, env.insumoTy.ID, "March Cover")
	require.NoError(t, env.insumos.Create(ctx, i))
	require.NoError(t, env.insumos.AddAttachment(ctx,
		testutil.NewTestAttachment(i.ID, domain.AttachmentImage, "cover.png", testutil.WithCaption("front"))))
	require.NoError(t, env.insumos.SetTags(ctx, i.ID, []string{tag.ID}))
	require.NoError(t, env.insumos.SetResponsibles(ctx, i.ID, []string{user.ID}))

	list, err := env.insumos.ListByEdition(ctx, env.edition.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "cover.png", got.Attachments[0].Filename)
	assert.Equal(t, "front", got.Attachments[0].Caption)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "urgent", got.Tags[0].Name)
	require.Len(t, got.Responsibles, 1)
	assert.Equal(t, "Bruno", got.Responsibles[0].Name)
}

func TestInsumoRepo_SetTags_ReplacesSet(t *testing.T) {
	env := insumoTestSetup(t)
	ctx := context.Background()

	a := testutil.NewTestTag("urgent", "#ff0000")
	b := testutil.NewTestTag("data", "#00ff00")
	require.NoError(t, env.tags.Create(ctx, a))
	require.NoError(t, env.tags.Create(ctx, b))

	i := testutil.NewTestInsumo(env.edition.ID, env.insumoTy.ID, "March Cover")
	require.NoError(t, env.insumos.Create(ctx, i))

	require.NoError(t, env.insumos.SetTags(ctx, i.ID, []string{a.ID}))
	require.NoError(t, env.insumos.SetTags(ctx, i.ID, []string{b.ID}))

	fetched, err := env.insumos.GetByID(ctx, i.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Tags, 1)
	assert.Equal(t, "data", fetched.Tags[0].Name)
}

func TestInsumoRepo_CountByStatus(t *testing.T) {
	env := insumoTestSetup(t)
	ctx := context.Background()

	for range 3 {
		i := testutil.NewTestInsumo(env.edition.ID, env.insumoTy.ID, "Item",
			testutil.WithStatus(domain.StatusApproved))
		require.NoError(t, env.insumos.Create(ctx, i))
	}
	i := testutil.NewTestInsumo(env.edition.ID, env.insumoTy.ID, "Item",
		testutil.WithStatus(domain.StatusInProgress))
	require.NoError(t, env.insumos.Create(ctx, i))

	counts, err := env.insumos.CountByStatus(ctx, env.edition.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[domain.StatusApproved])
	assert.Equal(t, 1, counts[domain.StatusInProgress])
	assert.Zero(t, counts[domain.StatusSubmitted])
}

func TestInsumoRepo_AdjustmentReasonRoundTrip(t *testing.T) {
	env := insumoTestSetup(t)
	ctx := context.Background()

	i := testutil.NewTestInsumo(env.edition.ID, env.insumoTy.ID, "March Cover",
		testutil.WithStatus(domain.StatusAdjustmentRequested),
		testutil.WithContent("needs rework"),
		testutil.WithAdjustmentReason("numbers section incomplete"))
	require.NoError(t, env.insumos.Create(ctx, i))

	fetched, err := env.insumos.GetByID(ctx, i.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAdjustmentRequested, fetched.Status)
	assert.Equal(t, "numbers section incomplete", fetched.AdjustmentReason)
}
