package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchema() *CatalogSchema {
	return &CatalogSchema{
		Products: []ProductImport{
			{Name: "Revista Tech"},
			{Slug: "boletim", Name: "Boletim Semanal"},
		},
		InsumoTypes: []TypeImport{
			{Name: "Capa", RequiresImage: true},
			{Name: "Editorial"},
		},
		Users: []UserImport{
			{Name: "Ana", Email: "ana@example.com", Role: "analyst", Products: []string{"revista-tech"}},
		},
	}
}

func TestValidateCatalogSchema_Valid(t *testing.T) {
	errs := ValidateCatalogSchema(validSchema())
	assert.Empty(t, errs)
}

func TestValidateCatalogSchema_MissingNames(t *testing.T) {
	schema := &CatalogSchema{
		Products:    []ProductImport{{Slug: "x"}},
		InsumoTypes: []TypeImport{{Slug: "y"}},
	}
	errs := ValidateCatalogSchema(schema)
	require.Len(t, errs, 2)
	assert.ErrorContains(t, errs[0], "products[0].name")
	assert.ErrorContains(t, errs[1], "insumo_types[0].name")
}

func TestValidateCatalogSchema_DuplicateSlugAfterDerivation(t *testing.T) {
	schema := &CatalogSchema{
		Products: []ProductImport{
			{Name: "Revista Tech"},
			{Slug: "revista-tech", Name: "Outra"},
		},
	}
	errs := ValidateCatalogSchema(schema)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], `duplicate slug "revista-tech"`)
}

func TestValidateCatalogSchema_UserChecks(t *testing.T) {
	schema := validSchema()
	schema.Users = []UserImport{
		{Name: "Bia", Email: "not-an-email", Role: "wizard", Products: []string{"missing"}},
		{Name: "", Email: "ana@example.com"},
		{Name: "Dup", Email: "ana@example.com"},
	}
	errs := ValidateCatalogSchema(schema)

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	joined := ""
	for _, m := range msgs {
		joined += m + "\n"
	}
	assert.Contains(t, joined, `invalid address "not-an-email"`)
	assert.Contains(t, joined, `invalid value "wizard"`)
	assert.Contains(t, joined, `slug "missing" not found`)
	assert.Contains(t, joined, "users[1].name is required")
	assert.Contains(t, joined, `duplicate address "ana@example.com"`)
}

func TestConvert_DerivesSlugsAndDefaults(t *testing.T) {
	cat := Convert(validSchema())

	require.Len(t, cat.Products, 2)
	assert.Equal(t, "revista-tech", cat.Products[0].Slug)
	assert.Equal(t, "boletim", cat.Products[1].Slug, "explicit slug wins over derivation")
	assert.True(t, cat.Products[0].Active, "active defaults to true")
	assert.NotEmpty(t, cat.Products[0].ID)

	require.Len(t, cat.Types, 2)
	assert.True(t, cat.Types[0].RequiresImage)
	assert.Equal(t, "editorial", cat.Types[1].Slug)

	require.Len(t, cat.Users, 1)
	assert.Equal(t, []string{"revista-tech"}, cat.Grants["ana@example.com"])
}

func TestConvert_InactiveStaysInactive(t *testing.T) {
	inactive := false
	cat := Convert(&CatalogSchema{
		Products: []ProductImport{{Name: "Arquivado", Active: &inactive}},
	})
	require.Len(t, cat.Products, 1)
	assert.False(t, cat.Products[0].Active)
}

func TestConvert_DefaultRoleIsAnalyst(t *testing.T) {
	cat := Convert(&CatalogSchema{
		Users: []UserImport{{Name: "Ana", Email: "ana@example.com"}},
	})
	require.Len(t, cat.Users, 1)
	assert.Equal(t, "analyst", string(cat.Users[0].Role))
}
