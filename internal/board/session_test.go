package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teuprojeto/flowrev/internal/domain"
)

func lookupFor(items ...*domain.Insumo) ItemLookup {
	byID := make(map[string]*domain.Insumo, len(items))
	for _, i := range items {
		byID[i.ID] = i
	}
	return func(id string) (*domain.Insumo, bool) {
		i, ok := byID[id]
		return i, ok
	}
}

func TestBeginDrag_UnknownItemRejected(t *testing.T) {
	e := NewEngine(DimStatus, domain.DefaultColumns())
	err := e.BeginDrag("ghost", DragItem, lookupFor())
	require.ErrorIs(t, err, ErrUnknownDraggable)
	assert.False(t, e.Dragging())
}

func TestBeginDrag_SecondDragRejected(t *testing.T) {
	item := &domain.Insumo{ID: "i1", Status: domain.StatusNotStarted}
	e := NewEngine(DimStatus, domain.DefaultColumns())
	lookup := lookupFor(item)

	require.NoError(t, e.BeginDrag("i1", DragItem, lookup))
	assert.True(t, e.Dragging())
	assert.Equal(t, "i1", e.ActiveID())

	assert.Error(t, e.BeginDrag("i1", DragItem, lookup))
}

func TestEndDrag_OutsideTargetAborts(t *testing.T) {
	item := &domain.Insumo{ID: "i1", Status: domain.StatusNotStarted}
	e := NewEngine(DimStatus, domain.DefaultColumns())
	lookup := lookupFor(item)

	require.NoError(t, e.BeginDrag("i1", DragItem, lookup))
	intent, err := e.EndDrag("", lookup)
	require.NoError(t, err)
	assert.Nil(t, intent, "drop outside any target is a clean abort")
	assert.False(t, e.Dragging(), "session destroyed unconditionally")
}

func TestEndDrag_SelfDropIsNoOp(t *testing.T) {
	item := &domain.Insumo{ID: "i1", Status: domain.StatusNotStarted}
	e := NewEngine(DimStatus, domain.DefaultColumns())
	lookup := lookupFor(item)

	require.NoError(t, e.BeginDrag("i1", DragItem, lookup))
	intent, err := e.EndDrag("i1", lookup)
	require.NoError(t, err)
	assert.Nil(t, intent)
}

func TestEndDrag_OwnColumnIsNoOp(t *testing.T) {
	item := &domain.Insumo{ID: "i1", Status: domain.StatusSubmitted}
	e := NewEngine(DimStatus, domain.DefaultColumns())
	lookup := lookupFor(item)

	require.NoError(t, e.BeginDrag("i1", DragItem, lookup))
	intent, err := e.EndDrag(string(domain.StatusSubmitted), lookup)
	require.NoError(t, err)
	assert.Nil(t, intent, "dropping onto the current column moves nothing")
}

func TestEndDrag_ColumnTargetEmitsIntent(t *testing.T) {
	item := &domain.Insumo{ID: "i1", Status: domain.StatusNotStarted}
	e := NewEngine(DimStatus, domain.DefaultColumns())
	lookup := lookupFor(item)

	require.NoError(t, e.BeginDrag("i1", DragItem, lookup))
	e.UpdateHover(string(domain.StatusSubmitted))

	preview, ok := e.HoverTarget(lookup)
	require.True(t, ok)
	assert.Equal(t, domain.StatusSubmitted, preview.Status)

	intent, err := e.EndDrag(string(domain.StatusSubmitted), lookup)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, "i1", intent.InsumoID)
	assert.Equal(t, TargetColumn, intent.Target.Kind)
	assert.Equal(t, domain.StatusSubmitted, intent.Target.Status)
	assert.False(t, e.Dragging())
}

func TestEndDrag_DropOntoOtherItemUsesItsColumn(t *testing.T) {
	a := &domain.Insumo{ID: "a", Status: domain.StatusNotStarted}
	b := &domain.Insumo{ID: "b", Status: domain.StatusUnderReview}
	e := NewEngine(DimStatus, domain.DefaultColumns())
	lookup := lookupFor(a, b)

	require.NoError(t, e.BeginDrag("a", DragItem, lookup))
	intent, err := e.EndDrag("b", lookup)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, domain.StatusUnderReview, intent.Target.Status)
}

func TestEndDrag_ItemVanishedMidSession(t *testing.T) {
	item := &domain.Insumo{ID: "i1", Status: domain.StatusNotStarted}
	e := NewEngine(DimStatus, domain.DefaultColumns())

	require.NoError(t, e.BeginDrag("i1", DragItem, lookupFor(item)))
	// The store was refetched and the item is gone.
	intent, err := e.EndDrag(string(domain.StatusSubmitted), lookupFor())
	require.ErrorIs(t, err, ErrUnknownDraggable)
	assert.Nil(t, intent)
	assert.False(t, e.Dragging(), "session still destroyed on failure")
}

func TestCancel_NoSideEffect(t *testing.T) {
	item := &domain.Insumo{ID: "i1", Status: domain.StatusNotStarted}
	e := NewEngine(DimStatus, domain.DefaultColumns())
	lookup := lookupFor(item)

	require.NoError(t, e.BeginDrag("i1", DragItem, lookup))
	e.Cancel()
	assert.False(t, e.Dragging())
	assert.Equal(t, domain.StatusNotStarted, item.Status)
}

func TestColumnDrag_PermutesLocally(t *testing.T) {
	e := NewEngine(DimStatus, domain.DefaultColumns())
	lookup := lookupFor()

	require.NoError(t, e.BeginDrag(string(domain.StatusNotStarted), DragColumn, lookup))
	intent, err := e.EndDrag(string(domain.StatusSubmitted), lookup)
	require.NoError(t, err)
	assert.Nil(t, intent, "column moves never reach the policy layer")

	cols := e.Columns()
	require.Len(t, cols, 6)
	assert.Equal(t, domain.StatusInProgress, cols[0].ID)
	assert.Equal(t, domain.StatusSubmitted, cols[1].ID)
	assert.Equal(t, domain.StatusNotStarted, cols[2].ID)
}

func TestColumnDrag_UnknownColumnRejected(t *testing.T) {
	e := NewEngine(DimStatus, domain.DefaultColumns())
	err := e.BeginDrag("nonsense", DragColumn, lookupFor())
	assert.ErrorIs(t, err, ErrUnknownDraggable)
}

func TestDateDimension_SameDayIsNoOp(t *testing.T) {
	due := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	item := &domain.Insumo{ID: "i1", Status: domain.StatusInProgress, DueDate: &due}
	e := NewEngine(DimDate, nil)
	lookup := lookupFor(item)

	require.NoError(t, e.BeginDrag("i1", DragItem, lookup))
	// Same day, different time-of-day in the key's source: still a no-op.
	intent, err := e.EndDrag("2026-03-12", lookup)
	require.NoError(t, err)
	assert.Nil(t, intent)
}

func TestDateDimension_NewDayEmitsIntent(t *testing.T) {
	due := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	item := &domain.Insumo{ID: "i1", Status: domain.StatusInProgress, DueDate: &due}
	e := NewEngine(DimDate, nil)
	lookup := lookupFor(item)

	require.NoError(t, e.BeginDrag("i1", DragItem, lookup))
	intent, err := e.EndDrag("2026-03-20", lookup)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, TargetDay, intent.Target.Kind)
	assert.Equal(t, "2026-03-20", intent.Target.Day)
}

func TestDateDimension_UnparseableTargetIgnored(t *testing.T) {
	item := &domain.Insumo{ID: "i1", Status: domain.StatusInProgress}
	e := NewEngine(DimDate, nil)
	lookup := lookupFor(item)

	require.NoError(t, e.BeginDrag("i1", DragItem, lookup))
	intent, err := e.EndDrag("not-a-day", lookup)
	require.NoError(t, err)
	assert.Nil(t, intent)
}
