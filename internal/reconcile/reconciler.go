package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/teuprojeto/flowrev/internal/board"
	"github.com/teuprojeto/flowrev/internal/domain"
)

var (
	// ErrNotFound means the moved item is no longer in the store.
	ErrNotFound = errors.New("insumo not found")
	// ErrReasonRequired guards adjustment_requested moves: without a
	// reason the write must never be attempted.
	ErrReasonRequired = errors.New("adjustment reason required")
)

// Move is a policy-approved change to apply: exactly one of NewStatus or
// NewDate is set.
type Move struct {
	InsumoID         string
	NewStatus        *domain.InsumoStatus
	NewDate          *time.Time
	AdjustmentReason string
}

// MoveFromIntent converts an engine intent into a reconciler move.
func MoveFromIntent(intent board.MoveIntent) (Move, error) {
	m := Move{InsumoID: intent.InsumoID}
	switch intent.Target.Kind {
	case board.TargetColumn:
		s := intent.Target.Status
		m.NewStatus = &s
	case board.TargetDay:
		day, err := time.Parse("2006-01-02", intent.Target.Day)
		if err != nil {
			return Move{}, fmt.Errorf("parsing day key %q: %w", intent.Target.Day, err)
		}
		m.NewDate = &day
	default:
		return Move{}, fmt.Errorf("unknown target kind %q", intent.Target.Kind)
	}
	return m, nil
}

// Result reports the outcome of one persisted move, delivered through the
// notify callback once the backend write settles.
type Result struct {
	InsumoID   string
	Err        error // nil on success
	RolledBack bool  // store was restored to the pre-move snapshot
	Superseded bool  // a newer move landed first; this response was dropped
	Message    string
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock overrides the submitted-at timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithStaleListener registers the aggregate-staleness sink.
func WithStaleListener(l StaleListener) Option {
	return func(r *Reconciler) { r.stale = l }
}

// WithNotify registers the result sink. Results are delivered from worker
// goroutines, one per settled write, in per-insumo write order.
func WithNotify(fn func(Result)) Option {
	return func(r *Reconciler) { r.notify = fn }
}

// Reconciler applies moves optimistically to the local store, persists them
// through the backend, and rolls back on failure.
//
// Writes for the same insumo are serialized on a FIFO queue; writes for
// different insumos are unordered relative to each other. A move applied
// while an earlier write is still in flight supersedes it: the later
// target wins, and the earlier response is discarded by comparing the
// store's monotonic version stamp against the version the write produced.
type Reconciler struct {
	store   *Store
	backend Backend
	stale   StaleListener
	notify  func(Result)
	now     func() time.Time

	mu     sync.Mutex
	queues map[string][]persistJob // insumoID -> pending writes (FIFO)
	active map[string]bool         // insumoID -> worker draining its queue
	wg     sync.WaitGroup
}

type persistJob struct {
	ctx      context.Context
	move     Move
	snapshot *domain.Insumo
	version  int64 // store version this move produced
}

func New(store *Store, backend Backend, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:   store,
		backend: backend,
		stale:   NoopStaleListener{},
		notify:  func(Result) {},
		now:     func() time.Time { return time.Now().UTC() },
		queues:  make(map[string][]persistJob),
		active:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh fetches the edition's insumos and merges them into the store,
// honoring the version-stamp rule so optimistic local writes survive a
// stale server read.
func (r *Reconciler) Refresh(ctx context.Context, editionID string) error {
	fetched, err := r.backend.FetchInsumos(ctx, editionID)
	if err != nil {
		return fmt.Errorf("fetching insumos: %w", err)
	}
	r.store.MergeFetched(fetched)
	return nil
}

// ApplyMove snapshots the current item, applies the change optimistically,
// and queues the persistence write. The returned error covers only local
// preconditions (missing item, missing adjustment reason); write failures
// arrive asynchronously as a rolled-back Result.
func (r *Reconciler) ApplyMove(ctx context.Context, move Move) error {
	if move.NewStatus != nil && *move.NewStatus == domain.StatusAdjustmentRequested &&
		move.AdjustmentReason == "" {
		return ErrReasonRequired
	}

	r.mu.Lock()
	item, ok := r.store.get(move.InsumoID)
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, move.InsumoID)
	}

	snapshot := item.Clone()
	updated := item.Clone()
	r.applyLocal(updated, move)
	r.store.put(updated)

	job := persistJob{ctx: ctx, move: move, snapshot: snapshot, version: updated.Version}
	r.queues[move.InsumoID] = append(r.queues[move.InsumoID], job)
	startWorker := !r.active[move.InsumoID]
	if startWorker {
		r.active[move.InsumoID] = true
		r.wg.Add(1)
	}
	r.mu.Unlock()

	if startWorker {
		go r.drain(move.InsumoID)
	}
	return nil
}

// applyLocal mutates the working copy with the move's effects and bumps
// the version stamp. Mirrors the side effects the backend will apply.
func (r *Reconciler) applyLocal(item *domain.Insumo, move Move) {
	now := r.now()
	switch {
	case move.NewStatus != nil:
		entering := *move.NewStatus
		if entering == domain.StatusSubmitted && item.Status != domain.StatusSubmitted {
			t := now
			item.SubmittedAt = &t
		}
		if entering == domain.StatusAdjustmentRequested {
			item.AdjustmentReason = move.AdjustmentReason
		}
		item.Status = entering
	case move.NewDate != nil:
		day := move.NewDate.UTC().Truncate(24 * time.Hour)
		item.DueDate = &day
	}
	item.Version++
	item.UpdatedAt = now
}

// drain processes the insumo's write queue in FIFO order until empty.
func (r *Reconciler) drain(insumoID string) {
	defer r.wg.Done()
	for {
		r.mu.Lock()
		queue := r.queues[insumoID]
		if len(queue) == 0 {
			r.active[insumoID] = false
			delete(r.queues, insumoID)
			r.mu.Unlock()
			return
		}
		job := queue[0]
		r.queues[insumoID] = queue[1:]
		r.mu.Unlock()

		server, err := r.persist(job)
		r.settle(job, server, err)
	}
}

func (r *Reconciler) persist(job persistJob) (*domain.Insumo, error) {
	switch {
	case job.move.NewStatus != nil:
		return r.backend.UpdateInsumoStatus(job.ctx, job.move.InsumoID, *job.move.NewStatus, job.move.AdjustmentReason)
	case job.move.NewDate != nil:
		return r.backend.UpdateInsumoDate(job.ctx, job.move.InsumoID, *job.move.NewDate)
	default:
		return nil, fmt.Errorf("move carries neither status nor date")
	}
}

// settle applies a write response under the version-stamp rule: a response
// for a superseded move must not clobber newer local state, and a failed
// superseded move must not roll it back either.
func (r *Reconciler) settle(job persistJob, server *domain.Insumo, err error) {
	r.mu.Lock()
	current := r.store.version(job.move.InsumoID)
	superseded := current != job.version

	var result Result
	switch {
	case err != nil && superseded:
		result = Result{InsumoID: job.move.InsumoID, Err: err, Superseded: true}
	case err != nil:
		// Full rollback: the pre-move snapshot, exactly.
		r.store.put(job.snapshot.Clone())
		result = Result{
			InsumoID:   job.move.InsumoID,
			Err:        err,
			RolledBack: true,
			Message:    fmt.Sprintf("update failed, change reverted: %v", err),
		}
	case superseded:
		result = Result{InsumoID: job.move.InsumoID, Superseded: true}
	default:
		merged := server.Clone()
		if merged.Version < job.version {
			merged.Version = job.version
		}
		r.store.put(merged)
		result = Result{
			InsumoID: job.move.InsumoID,
			Message:  successMessage(job.move),
		}
	}
	r.mu.Unlock()

	if err == nil && !superseded && job.move.NewStatus != nil && server != nil {
		r.stale.MarkStale(server.EditionID)
	}
	r.notify(result)
}

func successMessage(move Move) string {
	if move.NewStatus != nil {
		return fmt.Sprintf("status updated to %s", domain.StatusLabels[*move.NewStatus])
	}
	return fmt.Sprintf("due date moved to %s", domain.DayKey(*move.NewDate))
}

// Wait blocks until all queued writes have settled. Used by tests and on
// shutdown.
func (r *Reconciler) Wait() {
	r.wg.Wait()
}
