package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teuprojeto/flowrev/internal/board"
	"github.com/teuprojeto/flowrev/internal/domain"
)

// fakeBackend is an in-memory store of record with controllable failures
// and an optional gate that holds writes in flight until released.
type fakeBackend struct {
	mu      sync.Mutex
	insumos map[string]*domain.Insumo
	fail    error
	gate    chan struct{} // when non-nil, each write waits for one receive

	statusCalls int
	dateCalls   int
}

func newFakeBackend(items ...*domain.Insumo) *fakeBackend {
	b := &fakeBackend{insumos: make(map[string]*domain.Insumo)}
	for _, i := range items {
		b.insumos[i.ID] = i.Clone()
	}
	return b
}

func (b *fakeBackend) release() { b.gate <- struct{}{} }

func (b *fakeBackend) FetchInsumos(_ context.Context, editionID string) ([]*domain.Insumo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []*domain.Insumo
	for _, i := range b.insumos {
		if i.EditionID == editionID {
			out = append(out, i.Clone())
		}
	}
	return out, nil
}

func (b *fakeBackend) UpdateInsumoStatus(_ context.Context, id string, status domain.InsumoStatus, reason string) (*domain.Insumo, error) {
	if b.gate != nil {
		<-b.gate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statusCalls++
	if b.fail != nil {
		return nil, b.fail
	}
	item := b.insumos[id]
	item.Status = status
	if status == domain.StatusAdjustmentRequested {
		item.AdjustmentReason = reason
	}
	item.Version++
	return item.Clone(), nil
}

func (b *fakeBackend) UpdateInsumoDate(_ context.Context, id string, due time.Time) (*domain.Insumo, error) {
	if b.gate != nil {
		<-b.gate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dateCalls++
	if b.fail != nil {
		return nil, b.fail
	}
	item := b.insumos[id]
	d := due
	item.DueDate = &d
	item.Version++
	return item.Clone(), nil
}

func (b *fakeBackend) UpdateInsumoContent(_ context.Context, id string, content, notes *string) (*domain.Insumo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item := b.insumos[id]
	if content != nil {
		item.Content = *content
	}
	if notes != nil {
		item.Notes = *notes
	}
	item.Version++
	return item.Clone(), nil
}

// resultSink collects notify callbacks safely.
type resultSink struct {
	mu      sync.Mutex
	results []Result
}

func (s *resultSink) add(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *resultSink) all() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...)
}

func statusMove(id string, s domain.InsumoStatus) Move {
	return Move{InsumoID: id, NewStatus: &s}
}

func seedInsumo() *domain.Insumo {
	return &domain.Insumo{
		ID:        "i1",
		EditionID: "e1",
		Title:     "Cover Story",
		Status:    domain.StatusNotStarted,
		Content:   "draft text",
		Version:   3,
	}
}

func TestApplyMove_OptimisticApplyBeforeWriteSettles(t *testing.T) {
	item := seedInsumo()
	backend := newFakeBackend(item)
	backend.gate = make(chan struct{})

	store := NewStore()
	store.Replace([]*domain.Insumo{item})
	sink := &resultSink{}
	rec := New(store, backend, WithNotify(sink.add))

	require.NoError(t, rec.ApplyMove(context.Background(), statusMove("i1", domain.StatusInProgress)))

	// The write is still gated, but the store already shows the move.
	got, ok := store.Get("i1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, int64(4), got.Version, "optimistic apply bumps the version stamp")

	backend.release()
	rec.Wait()

	results := sink.all()
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Contains(t, results[0].Message, "In Progress")
}

func TestApplyMove_SubmittedStampsSubmittedAt(t *testing.T) {
	item := seedInsumo()
	backend := newFakeBackend(item)
	store := NewStore()
	store.Replace([]*domain.Insumo{item})

	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := New(store, backend, WithClock(func() time.Time { return fixed }))

	require.NoError(t, rec.ApplyMove(context.Background(), statusMove("i1", domain.StatusSubmitted)))
	rec.Wait()

	got, _ := store.Get("i1")
	assert.Equal(t, domain.StatusSubmitted, got.Status)
	require.NotNil(t, got.SubmittedAt)
	assert.Equal(t, fixed, *got.SubmittedAt)
}

func TestApplyMove_FailureRollsBackExactSnapshot(t *testing.T) {
	item := seedInsumo()
	backend := newFakeBackend(item)
	backend.fail = errors.New("backend down")

	store := NewStore()
	store.Replace([]*domain.Insumo{item})
	sink := &resultSink{}
	rec := New(store, backend, WithNotify(sink.add))

	before, _ := store.Get("i1")

	require.NoError(t, rec.ApplyMove(context.Background(), statusMove("i1", domain.StatusInProgress)))
	rec.Wait()

	after, _ := store.Get("i1")
	assert.Equal(t, before, after, "rollback must restore the pre-move snapshot exactly")

	results := sink.all()
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.True(t, results[0].RolledBack)
	assert.Contains(t, results[0].Message, "reverted")
}

func TestApplyMove_AdjustmentWithoutReasonNeverReachesBackend(t *testing.T) {
	item := seedInsumo()
	backend := newFakeBackend(item)
	store := NewStore()
	store.Replace([]*domain.Insumo{item})
	rec := New(store, backend)

	err := rec.ApplyMove(context.Background(), statusMove("i1", domain.StatusAdjustmentRequested))
	require.ErrorIs(t, err, ErrReasonRequired)
	rec.Wait()

	got, _ := store.Get("i1")
	assert.Equal(t, domain.StatusNotStarted, got.Status, "store untouched")
	assert.Zero(t, backend.statusCalls, "write must not be attempted")
}

func TestApplyMove_AdjustmentWithReasonAttachesIt(t *testing.T) {
	item := seedInsumo()
	backend := newFakeBackend(item)
	store := NewStore()
	store.Replace([]*domain.Insumo{item})
	rec := New(store, backend)

	move := statusMove("i1", domain.StatusAdjustmentRequested)
	move.AdjustmentReason = "numbers section incomplete"
	require.NoError(t, rec.ApplyMove(context.Background(), move))
	rec.Wait()

	got, _ := store.Get("i1")
	assert.Equal(t, domain.StatusAdjustmentRequested, got.Status)
	assert.Equal(t, "numbers section incomplete", got.AdjustmentReason)
}

func TestApplyMove_UnknownInsumo(t *testing.T) {
	store := NewStore()
	rec := New(store, newFakeBackend())
	err := rec.ApplyMove(context.Background(), statusMove("ghost", domain.StatusInProgress))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRapidMoves_LaterTargetWins(t *testing.T) {
	item := seedInsumo()
	item.Status = domain.StatusSubmitted
	backend := newFakeBackend(item)
	backend.gate = make(chan struct{})

	store := NewStore()
	store.Replace([]*domain.Insumo{item})
	sink := &resultSink{}
	rec := New(store, backend, WithNotify(sink.add))

	ctx := context.Background()
	require.NoError(t, rec.ApplyMove(ctx, statusMove("i1", domain.StatusUnderReview)))

	second := statusMove("i1", domain.StatusAdjustmentRequested)
	second.AdjustmentReason = "rework the intro"
	require.NoError(t, rec.ApplyMove(ctx, second))

	// Local state already reflects the later move.
	got, _ := store.Get("i1")
	assert.Equal(t, domain.StatusAdjustmentRequested, got.Status)

	// Settle the first write, then the second.
	backend.release()
	backend.release()
	rec.Wait()

	got, _ = store.Get("i1")
	assert.Equal(t, domain.StatusAdjustmentRequested, got.Status,
		"the earlier response must never regress the newer local state")

	results := sink.all()
	require.Len(t, results, 2)
	assert.True(t, results[0].Superseded, "first write settles as superseded")
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 2, backend.statusCalls, "writes are serialized, both issued")
}

func TestApplyMove_DateMoveTruncatesToDay(t *testing.T) {
	item := seedInsumo()
	backend := newFakeBackend(item)
	store := NewStore()
	store.Replace([]*domain.Insumo{item})
	rec := New(store, backend)

	due := time.Date(2026, 3, 20, 17, 45, 0, 0, time.UTC)
	require.NoError(t, rec.ApplyMove(context.Background(), Move{InsumoID: "i1", NewDate: &due}))
	rec.Wait()

	got, _ := store.Get("i1")
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-03-20", domain.DayKey(*got.DueDate))
	assert.Equal(t, 1, backend.dateCalls)
}

func TestStaleListener_SignaledOnStatusMoves(t *testing.T) {
	item := seedInsumo()
	backend := newFakeBackend(item)
	store := NewStore()
	store.Replace([]*domain.Insumo{item})

	var mu sync.Mutex
	var stale []string
	rec := New(store, backend, WithStaleListener(staleFunc(func(editionID string) {
		mu.Lock()
		stale = append(stale, editionID)
		mu.Unlock()
	})))

	require.NoError(t, rec.ApplyMove(context.Background(), statusMove("i1", domain.StatusInProgress)))
	rec.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"e1"}, stale)
}

type staleFunc func(string)

func (f staleFunc) MarkStale(editionID string) { f(editionID) }

func TestRefresh_StaleFetchKeepsNewerLocalState(t *testing.T) {
	item := seedInsumo()
	backend := newFakeBackend(item)
	backend.gate = make(chan struct{})

	store := NewStore()
	store.Replace([]*domain.Insumo{item})
	rec := New(store, backend)

	// Optimistic move is applied locally while the write hangs.
	require.NoError(t, rec.ApplyMove(context.Background(), statusMove("i1", domain.StatusInProgress)))

	// A background refetch returns the pre-write server state.
	require.NoError(t, rec.Refresh(context.Background(), "e1"))

	got, _ := store.Get("i1")
	assert.Equal(t, domain.StatusInProgress, got.Status,
		"stale refetch must not undo the optimistic write")

	backend.release()
	rec.Wait()
}

func TestMoveFromIntent(t *testing.T) {
	m, err := MoveFromIntent(board.MoveIntent{
		InsumoID: "i1",
		Target:   board.Target{Kind: board.TargetColumn, Status: domain.StatusApproved},
	})
	require.NoError(t, err)
	require.NotNil(t, m.NewStatus)
	assert.Equal(t, domain.StatusApproved, *m.NewStatus)

	m, err = MoveFromIntent(board.MoveIntent{
		InsumoID: "i1",
		Target:   board.Target{Kind: board.TargetDay, Day: "2026-03-20"},
	})
	require.NoError(t, err)
	require.NotNil(t, m.NewDate)
	assert.Equal(t, "2026-03-20", domain.DayKey(*m.NewDate))

	_, err = MoveFromIntent(board.MoveIntent{
		InsumoID: "i1",
		Target:   board.Target{Kind: board.TargetDay, Day: "soon"},
	})
	assert.Error(t, err)
}
