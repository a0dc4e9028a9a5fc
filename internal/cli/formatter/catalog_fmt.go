package formatter

import (
	"fmt"
	"strings"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// FormatProductList renders the product catalog.
func FormatProductList(products []*domain.Product) string {
	headers := []string{"SLUG", "NAME", "ACTIVE"}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		active := StyleGreen.Render("yes")
		if !p.Active {
			active = Dim("no")
		}
		rows = append(rows, []string{
			StylePurple.Render(p.Slug),
			Bold(p.Name),
			active,
		})
	}
	return RenderTable(headers, rows)
}

// FormatTypeList renders the insumo type catalog with its content
// requirements.
func FormatTypeList(types []*domain.InsumoType) string {
	headers := []string{"SLUG", "NAME", "REQUIRES", "ACTIVE"}
	rows := make([][]string, 0, len(types))
	for _, ty := range types {
		var reqs []string
		if ty.RequiresImage {
			reqs = append(reqs, "image")
		}
		if ty.RequiresCaption {
			reqs = append(reqs, "caption")
		}
		if ty.RequiresPDF {
			reqs = append(reqs, "pdf")
		}
		req := Dim("--")
		if len(reqs) > 0 {
			req = StyleBlue.Render(strings.Join(reqs, ", "))
		}
		active := StyleGreen.Render("yes")
		if !ty.Active {
			active = Dim("no")
		}
		rows = append(rows, []string{
			StylePurple.Render(ty.Slug),
			Bold(ty.Name),
			req,
			active,
		})
	}
	return RenderTable(headers, rows)
}

// FormatUserList renders the team roster with product access.
func FormatUserList(users []*domain.User) string {
	headers := []string{"NAME", "EMAIL", "ROLE", "PRODUCTS"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		access := Dim("--")
		if u.Role == domain.RoleManager {
			access = StyleGreen.Render("all")
		} else if len(u.ProductSlugs) > 0 {
			access = StyleFg.Render(strings.Join(u.ProductSlugs, ", "))
		}
		rows = append(rows, []string{
			Bold(u.Name),
			StyleFg.Render(u.Email),
			RoleBadge(u.Role),
			access,
		})
	}
	return RenderTable(headers, rows)
}

// RoleBadge returns a styled role label.
func RoleBadge(r domain.Role) string {
	label := strings.ReplaceAll(string(r), "_", " ")
	switch r {
	case domain.RoleManager:
		return StyleRed.Render(label)
	case domain.RoleCoordinator:
		return StyleYellow.Render(label)
	case domain.RoleAnalyst:
		return StylePurple.Render(label)
	default:
		return StyleBlue.Render(label)
	}
}

// FormatEditionList renders a product's cycles, newest first.
func FormatEditionList(editions []*domain.Edition) string {
	headers := []string{"ID", "CYCLE", "PHASE"}
	rows := make([][]string, 0, len(editions))
	for _, e := range editions {
		rows = append(rows, []string{
			TruncID(e.ID),
			Bold(fmt.Sprintf("%04d-%02d", e.Year, e.Month)),
			PhaseBadge(e.Phase),
		})
	}
	return RenderTable(headers, rows)
}
