package domain

import "time"

// Product is one publication tracked by the production line.
type Product struct {
	ID        string
	Name      string
	Slug      string
	Active    bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InsumoType describes one kind of content item. Every active type yields
// one insumo when an edition starts.
type InsumoType struct {
	ID              string
	Name            string
	Slug            string
	Description     string
	SortOrder       int
	RequiresImage   bool
	RequiresCaption bool
	RequiresPDF     bool
	Active          bool
	CreatedAt       time.Time
}

// Edition is one monthly production cycle for one product.
type Edition struct {
	ID        string
	ProductID string
	Month     int // 1–12
	Year      int
	Phase     ProductionPhase
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompletionPct derives the edition's aggregate completion percentage from
// its insumos' statuses. An edition with no insumos is 0% complete.
func CompletionPct(insumos []*Insumo) float64 {
	if len(insumos) == 0 {
		return 0
	}
	approved := 0
	for _, i := range insumos {
		if i.Status == StatusApproved {
			approved++
		}
	}
	return float64(approved) / float64(len(insumos)) * 100
}

// User is an actor on the board. ProductSlugs lists the products the user
// may open; managers implicitly access everything.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	ProductSlugs []string
	CreatedAt    time.Time
}

// CanAccessProduct reports whether the user may open the given product's
// board.
func (u *User) CanAccessProduct(slug string) bool {
	if u.Role == RoleManager {
		return true
	}
	for _, s := range u.ProductSlugs {
		if s == slug {
			return true
		}
	}
	return false
}
