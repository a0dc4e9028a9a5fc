package domain

// Column is a view-only board lane. Columns are never persisted; they are
// derived from the status enum at render time.
type Column struct {
	ID    InsumoStatus
	Title string
}

// DefaultColumns returns the board lanes in workflow order, one per status.
func DefaultColumns() []Column {
	cols := make([]Column, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		cols = append(cols, Column{ID: s, Title: StatusLabels[s]})
	}
	return cols
}
