package importer

import (
	"time"

	"github.com/google/uuid"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// Catalog holds converted domain objects ready for persistence. Grants maps
// a user's email to the product slugs they may open; the persistence layer
// resolves slugs to IDs at write time so grants can also reference products
// that already exist in the store.
type Catalog struct {
	Products []*domain.Product
	Types    []*domain.InsumoType
	Users    []*domain.User
	Grants   map[string][]string
}

// Convert transforms a validated CatalogSchema into domain objects.
// Call ValidateCatalogSchema first; Convert assumes the schema is valid.
func Convert(schema *CatalogSchema) *Catalog {
	now := time.Now().UTC()

	cat := &Catalog{Grants: make(map[string][]string)}

	for _, p := range schema.Products {
		cat.Products = append(cat.Products, &domain.Product{
			ID:        uuid.New().String(),
			Name:      p.Name,
			Slug:      effectiveSlug(p.Slug, p.Name),
			Active:    boolOrTrue(p.Active),
			SortOrder: p.SortOrder,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	for _, ty := range schema.InsumoTypes {
		cat.Types = append(cat.Types, &domain.InsumoType{
			ID:              uuid.New().String(),
			Name:            ty.Name,
			Slug:            effectiveSlug(ty.Slug, ty.Name),
			Description:     ty.Description,
			SortOrder:       ty.SortOrder,
			RequiresImage:   ty.RequiresImage,
			RequiresCaption: ty.RequiresCaption,
			RequiresPDF:     ty.RequiresPDF,
			Active:          boolOrTrue(ty.Active),
			CreatedAt:       now,
		})
	}

	for _, u := range schema.Users {
		role := domain.Role(u.Role)
		if u.Role == "" {
			role = domain.RoleAnalyst
		}
		cat.Users = append(cat.Users, &domain.User{
			ID:        uuid.New().String(),
			Name:      u.Name,
			Email:     u.Email,
			Role:      role,
			CreatedAt: now,
		})
		if len(u.Products) > 0 {
			cat.Grants[u.Email] = append([]string(nil), u.Products...)
		}
	}

	return cat
}

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}
