package board

import (
	"strings"
	"time"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// Filters is the active view filter state. All predicates compose
// conjunctively. The zero value filters nothing.
type Filters struct {
	Search       string
	OnlyMine     bool
	ActingUserID string
	OnlyDelayed  bool
	Today        time.Time
	TypeID       string
}

// Apply derives the visible subset of items. It never mutates the input
// and is recomputed on every render from current filter state, so derived
// state can never desync from the store.
func Apply(items []*domain.Insumo, f Filters) []*domain.Insumo {
	var visible []*domain.Insumo
	for _, item := range items {
		if matches(item, f) {
			visible = append(visible, item)
		}
	}
	return visible
}

func matches(i *domain.Insumo, f Filters) bool {
	if term := strings.TrimSpace(f.Search); term != "" {
		term = strings.ToLower(term)
		if !strings.Contains(strings.ToLower(i.Title), term) &&
			!strings.Contains(strings.ToLower(i.Content), term) {
			return false
		}
	}
	if f.OnlyMine && !responsibleFor(i, f.ActingUserID) {
		return false
	}
	if f.OnlyDelayed && !i.IsDelayed(f.Today) {
		return false
	}
	if f.TypeID != "" && i.TypeID != f.TypeID {
		return false
	}
	return true
}

func responsibleFor(i *domain.Insumo, userID string) bool {
	if userID == "" {
		return false
	}
	for _, r := range i.Responsibles {
		if r.ID == userID {
			return true
		}
	}
	return false
}
