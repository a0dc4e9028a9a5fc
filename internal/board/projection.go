package board

import "github.com/teuprojeto/flowrev/internal/domain"

// ItemsByColumn groups insumos by status, preserving input order within
// each column (input order is creation order; intra-column reordering is
// display-only and never persisted). Pure function: no side effects.
func ItemsByColumn(items []*domain.Insumo, cols []domain.Column) map[domain.InsumoStatus][]*domain.Insumo {
	grouped := make(map[domain.InsumoStatus][]*domain.Insumo, len(cols))
	for _, c := range cols {
		grouped[c.ID] = nil
	}
	for _, item := range items {
		if _, ok := grouped[item.Status]; !ok {
			// Unknown status: not rendered, but never dropped silently
			// into another lane.
			continue
		}
		grouped[item.Status] = append(grouped[item.Status], item)
	}
	return grouped
}
