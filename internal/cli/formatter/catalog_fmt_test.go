package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teuprojeto/flowrev/internal/domain"
)

func TestFormatProductList(t *testing.T) {
	out := FormatProductList([]*domain.Product{
		{Slug: "monthly-report", Name: "Monthly Report", Active: true},
		{Slug: "old-bulletin", Name: "Old Bulletin", Active: false},
	})
	assert.Contains(t, out, "monthly-report")
	assert.Contains(t, out, "Monthly Report")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "no")
}

func TestFormatTypeList_ShowsRequirements(t *testing.T) {
	out := FormatTypeList([]*domain.InsumoType{
		{Slug: "cover", Name: "Cover", RequiresImage: true, RequiresCaption: true, Active: true},
		{Slug: "editorial", Name: "Editorial", Active: true},
	})
	assert.Contains(t, out, "image, caption")
	assert.Contains(t, out, "--")
}

func TestFormatUserList_ManagerSeesAll(t *testing.T) {
	out := FormatUserList([]*domain.User{
		{Name: "Ana", Email: "ana@example.com", Role: domain.RoleManager},
		{Name: "Bruno", Email: "bruno@example.com", Role: domain.RoleAnalyst, ProductSlugs: []string{"monthly-report"}},
	})
	assert.Contains(t, out, "all")
	assert.Contains(t, out, "monthly-report")
	assert.Contains(t, out, "analyst")
}

func TestFormatEditionList(t *testing.T) {
	out := FormatEditionList([]*domain.Edition{
		{ID: "aaaaaaaa-1111", Year: 2026, Month: 4, Phase: domain.PhaseBuild},
	})
	assert.Contains(t, out, "2026-04")
	assert.Contains(t, out, "BUILD")
}
