package importer

import (
	"fmt"
	"strings"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// ValidateCatalogSchema checks the import schema before conversion and
// returns every validation error found, not just the first.
func ValidateCatalogSchema(schema *CatalogSchema) []error {
	var errs []error

	productSlugs := make(map[string]bool)
	errs = append(errs, validateProducts(schema.Products, productSlugs)...)
	errs = append(errs, validateTypes(schema.InsumoTypes)...)
	errs = append(errs, validateUsers(schema.Users, productSlugs)...)

	return errs
}

// effectiveSlug applies the same derivation the services use: an explicit
// slug wins, otherwise the name is slugified.
func effectiveSlug(slug, name string) string {
	if slug != "" {
		return slug
	}
	return domain.Slugify(name)
}

func validateProducts(products []ProductImport, slugs map[string]bool) []error {
	var errs []error

	for i, p := range products {
		prefix := fmt.Sprintf("products[%d]", i)

		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
			continue
		}
		slug := effectiveSlug(p.Slug, p.Name)
		if slugs[slug] {
			errs = append(errs, fmt.Errorf("%s: duplicate slug %q", prefix, slug))
			continue
		}
		slugs[slug] = true
	}

	return errs
}

func validateTypes(types []TypeImport) []error {
	var errs []error

	slugs := make(map[string]bool)
	for i, ty := range types {
		prefix := fmt.Sprintf("insumo_types[%d]", i)

		if ty.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
			continue
		}
		slug := effectiveSlug(ty.Slug, ty.Name)
		if slugs[slug] {
			errs = append(errs, fmt.Errorf("%s: duplicate slug %q", prefix, slug))
			continue
		}
		slugs[slug] = true
	}

	return errs
}

func validateUsers(users []UserImport, productSlugs map[string]bool) []error {
	var errs []error

	emails := make(map[string]bool)
	for i, u := range users {
		prefix := fmt.Sprintf("users[%d]", i)

		if u.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if u.Email == "" {
			errs = append(errs, fmt.Errorf("%s.email is required", prefix))
		} else if !strings.Contains(u.Email, "@") {
			errs = append(errs, fmt.Errorf("%s.email: invalid address %q", prefix, u.Email))
		} else if emails[u.Email] {
			errs = append(errs, fmt.Errorf("%s.email: duplicate address %q", prefix, u.Email))
		} else {
			emails[u.Email] = true
		}

		if u.Role != "" && !domain.ValidRoles[u.Role] {
			errs = append(errs, fmt.Errorf("%s.role: invalid value %q", prefix, u.Role))
		}

		for _, slug := range u.Products {
			if !productSlugs[slug] {
				errs = append(errs, fmt.Errorf("%s.products: slug %q not found in products list", prefix, slug))
			}
		}
	}

	return errs
}
