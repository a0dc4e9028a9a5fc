package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/testutil"
)

func TestUserRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("Ana", testutil.WithRole(domain.RoleCoordinator), testutil.WithEmail("ana@example.com"))
	require.NoError(t, repo.Create(ctx, u))

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", fetched.Name)
	assert.Equal(t, domain.RoleCoordinator, fetched.Role)
	assert.Equal(t, "ana@example.com", fetched.Email)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("Bruno", testutil.WithEmail("bruno@example.com"))
	require.NoError(t, repo.Create(ctx, u))

	fetched, err := repo.GetByEmail(ctx, "bruno@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, fetched.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_GrantAndRevokeProduct(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	products := NewSQLiteProductRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProduct("Monthly Report")
	require.NoError(t, products.Create(ctx, p))
	u := testutil.NewTestUser("Clara", testutil.WithRole(domain.RoleAnalyst))
	require.NoError(t, users.Create(ctx, u))

	require.NoError(t, users.GrantProduct(ctx, u.ID, p.ID))
	// Granting twice is a no-op.
	require.NoError(t, users.GrantProduct(ctx, u.ID, p.ID))

	fetched, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"monthly-report"}, fetched.ProductSlugs)
	assert.True(t, fetched.CanAccessProduct("monthly-report"))
	assert.False(t, fetched.CanAccessProduct("other-product"))

	require.NoError(t, users.RevokeProduct(ctx, u.ID, p.ID))
	fetched, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.ProductSlugs)
}

func TestUserRepo_DuplicateEmailRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("Ana", testutil.WithEmail("shared@example.com"))))
	err := repo.Create(ctx, testutil.NewTestUser("Bruna", testutil.WithEmail("shared@example.com")))
	assert.Error(t, err, "email is unique when set")
}

func TestUserRepo_List_OrderedByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("Zeca")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("Ana")))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "Zeca", list[1].Name)
}
