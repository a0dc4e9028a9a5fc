package board

import (
	"fmt"
	"time"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// DragKind distinguishes what is being dragged.
type DragKind string

const (
	DragItem   DragKind = "item"
	DragColumn DragKind = "column"
)

// Dimension selects which axis a drop target moves: the board moves
// status, the calendar moves the due date.
type Dimension string

const (
	DimStatus Dimension = "status"
	DimDate   Dimension = "date"
)

// TargetKind tags the resolved drop destination.
type TargetKind string

const (
	TargetColumn TargetKind = "column"
	TargetDay    TargetKind = "day"
)

// Target is a resolved drop destination: a status column or a calendar day.
type Target struct {
	Kind   TargetKind
	Status domain.InsumoStatus
	Day    string // ISO date key, set when Kind == TargetDay
}

// MoveIntent is the engine's output: a request to move one insumo to a new
// status or day. It has not yet passed the transition policy.
type MoveIntent struct {
	InsumoID string
	Target   Target
}

// ItemLookup resolves an insumo id against the current entity store.
// The engine never mutates the store; it only reads through this.
type ItemLookup func(id string) (*domain.Insumo, bool)

type sessionState int

const (
	stateIdle sessionState = iota
	stateDragging
)

// ErrUnknownDraggable is returned when a drag references an id that no
// longer resolves to an insumo or column. Callers abort the session
// silently and log.
var ErrUnknownDraggable = fmt.Errorf("draggable not found")

// Engine is the drag session state machine: Idle → Dragging → Idle.
// A session exists only between BeginDrag and EndDrag/Cancel and is
// destroyed unconditionally when the drag ends.
type Engine struct {
	dim     Dimension
	columns []domain.Column

	state    sessionState
	kind     DragKind
	activeID string
	origin   Target
	hoverID  string
}

// NewEngine creates an idle engine for the given dimension. The column
// list is copied; column drags permute only the engine's copy (cosmetic,
// never persisted).
func NewEngine(dim Dimension, cols []domain.Column) *Engine {
	return &Engine{dim: dim, columns: append([]domain.Column(nil), cols...)}
}

// Columns returns the current (possibly reordered) column list.
func (e *Engine) Columns() []domain.Column {
	return append([]domain.Column(nil), e.columns...)
}

// Dragging reports whether a drag session is active.
func (e *Engine) Dragging() bool { return e.state == stateDragging }

// ActiveID returns the dragged id, or "" when idle.
func (e *Engine) ActiveID() string {
	if e.state != stateDragging {
		return ""
	}
	return e.activeID
}

// BeginDrag starts a session for an existing insumo or column. The origin
// location is recorded so no-op drops can be short-circuited later.
func (e *Engine) BeginDrag(id string, kind DragKind, lookup ItemLookup) error {
	if e.state == stateDragging {
		return fmt.Errorf("drag already active for %s", e.activeID)
	}
	switch kind {
	case DragItem:
		item, ok := lookup(id)
		if !ok {
			return fmt.Errorf("insumo %s: %w", id, ErrUnknownDraggable)
		}
		e.origin = e.locate(item)
	case DragColumn:
		if e.columnIndex(id) < 0 {
			return fmt.Errorf("column %s: %w", id, ErrUnknownDraggable)
		}
		e.origin = Target{Kind: TargetColumn, Status: domain.InsumoStatus(id)}
	default:
		return fmt.Errorf("unknown drag kind %q", kind)
	}
	e.state = stateDragging
	e.kind = kind
	e.activeID = id
	e.hoverID = ""
	return nil
}

// UpdateHover records the id currently under the ghost. Pure bookkeeping:
// the entity store is never touched, only the preview target changes.
func (e *Engine) UpdateHover(overID string) {
	if e.state != stateDragging {
		return
	}
	e.hoverID = overID
}

// HoverTarget resolves the current hover id into a preview target, if any.
func (e *Engine) HoverTarget(lookup ItemLookup) (Target, bool) {
	if e.state != stateDragging || e.hoverID == "" {
		return Target{}, false
	}
	return e.resolve(e.hoverID, lookup)
}

// EndDrag resolves the drop and destroys the session. It always returns
// the engine to Idle, whatever the outcome.
//
// A nil intent with nil error is a clean no-op: dropped outside any
// target, dropped on itself, or dropped on its own current location.
// Column drags permute the local column order and never emit an intent.
func (e *Engine) EndDrag(overID string, lookup ItemLookup) (*MoveIntent, error) {
	if e.state != stateDragging {
		return nil, fmt.Errorf("no active drag session")
	}
	activeID, kind := e.activeID, e.kind
	defer e.reset()

	// Dropped outside any valid target: abort with no state change.
	if overID == "" {
		return nil, nil
	}
	// Identity tie-break: no movement, never invoke the policy layer.
	if overID == activeID {
		return nil, nil
	}

	if kind == DragColumn {
		e.moveColumn(activeID, overID)
		return nil, nil
	}

	item, ok := lookup(activeID)
	if !ok {
		// Dragged item vanished mid-session.
		return nil, fmt.Errorf("insumo %s: %w", activeID, ErrUnknownDraggable)
	}
	target, ok := e.resolve(overID, lookup)
	if !ok {
		return nil, nil
	}
	if e.sameLocation(item, target) {
		return nil, nil
	}
	return &MoveIntent{InsumoID: activeID, Target: target}, nil
}

// Cancel aborts the session with no side effect.
func (e *Engine) Cancel() { e.reset() }

func (e *Engine) reset() {
	e.state = stateIdle
	e.kind = ""
	e.activeID = ""
	e.origin = Target{}
	e.hoverID = ""
}

// locate returns the item's current position on this engine's axis.
func (e *Engine) locate(item *domain.Insumo) Target {
	if e.dim == DimDate {
		t := Target{Kind: TargetDay}
		if item.DueDate != nil {
			t.Day = domain.DayKey(*item.DueDate)
		}
		return t
	}
	return Target{Kind: TargetColumn, Status: item.Status}
}

// resolve maps a droppable id to a target. On the status axis the id is a
// column id or another item (whose column is used); on the date axis it
// is an ISO day key or another item (whose due day is used).
func (e *Engine) resolve(overID string, lookup ItemLookup) (Target, bool) {
	if e.dim == DimDate {
		if _, err := time.Parse("2006-01-02", overID); err == nil {
			return Target{Kind: TargetDay, Day: overID}, true
		}
		if over, ok := lookup(overID); ok && over.DueDate != nil {
			return Target{Kind: TargetDay, Day: domain.DayKey(*over.DueDate)}, true
		}
		return Target{}, false
	}
	if e.columnIndex(overID) >= 0 {
		return Target{Kind: TargetColumn, Status: domain.InsumoStatus(overID)}, true
	}
	if over, ok := lookup(overID); ok {
		return Target{Kind: TargetColumn, Status: over.Status}, true
	}
	return Target{}, false
}

// sameLocation applies the no-op short-circuit: a drop onto the item's own
// column, or its own due day (compared at day granularity), moves nothing.
func (e *Engine) sameLocation(item *domain.Insumo, target Target) bool {
	switch target.Kind {
	case TargetColumn:
		return item.Status == target.Status
	case TargetDay:
		return item.DueDate != nil && domain.DayKey(*item.DueDate) == target.Day
	}
	return false
}

func (e *Engine) columnIndex(id string) int {
	for i, c := range e.columns {
		if string(c.ID) == id {
			return i
		}
	}
	return -1
}

// moveColumn permutes the local column order. Cosmetic only: column order
// is never persisted.
func (e *Engine) moveColumn(activeID, overID string) {
	from := e.columnIndex(activeID)
	to := e.columnIndex(overID)
	if from < 0 || to < 0 || from == to {
		return
	}
	col := e.columns[from]
	e.columns = append(e.columns[:from], e.columns[from+1:]...)
	rest := append([]domain.Column(nil), e.columns[to:]...)
	e.columns = append(append(e.columns[:to:to], col), rest...)
}
