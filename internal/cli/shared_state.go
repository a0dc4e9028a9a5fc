package cli

import (
	"time"

	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/reconcile"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Active production context
	Product *domain.Product
	Edition *domain.Edition

	// Local board state and its write path
	Store      *reconcile.Store
	Reconciler *reconcile.Reconciler

	// Settled write results and staleness signals, drained by the
	// listener command so they surface inside the tea loop.
	Results chan reconcile.Result
	Stales  chan string

	// Terminal dimensions
	Width  int
	Height int

	// Today is the reference day for delay and calendar rendering,
	// overridable in tests.
	Today func() time.Time
}

// newSharedState wires the optimistic store and the reconciler for one
// edition's board session.
func newSharedState(app *App, product *domain.Product, edition *domain.Edition) *SharedState {
	s := &SharedState{
		App:     app,
		Product: product,
		Edition: edition,
		Store:   reconcile.NewStore(),
		Results: make(chan reconcile.Result, 16),
		Stales:  make(chan string, 4),
	}
	s.Reconciler = reconcile.New(s.Store, app.Insumos,
		reconcile.WithNotify(func(r reconcile.Result) {
			select {
			case s.Results <- r:
			default:
			}
		}),
		reconcile.WithStaleListener(chanStaleListener{ch: s.Stales}),
	)
	return s
}

// chanStaleListener forwards staleness marks into the session channel,
// dropping signals when one is already pending.
type chanStaleListener struct{ ch chan string }

func (l chanStaleListener) MarkStale(editionID string) {
	select {
	case l.ch <- editionID:
	default:
	}
}

// ContentHeight returns the available height for view content, accounting
// for the header (2 lines) and the status bar (2 lines).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}

func (s *SharedState) today() time.Time {
	if s.Today != nil {
		return s.Today()
	}
	return time.Now().UTC()
}
