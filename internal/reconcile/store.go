package reconcile

import (
	"sync"

	"github.com/teuprojeto/flowrev/internal/board"
	"github.com/teuprojeto/flowrev/internal/domain"
)

// Store is the in-memory entity store behind the board. It is mutated only
// by the Reconciler and by refetch merges; every read hands out clones so
// callers can never alias reconciler-owned state.
type Store struct {
	mu    sync.RWMutex
	order []string
	items map[string]*domain.Insumo
}

func NewStore() *Store {
	return &Store{items: make(map[string]*domain.Insumo)}
}

// Replace loads a fresh result set, dropping all previous state. Input
// order becomes the store's creation order.
func (s *Store) Replace(items []*domain.Insumo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.items = make(map[string]*domain.Insumo, len(items))
	for _, item := range items {
		s.order = append(s.order, item.ID)
		s.items[item.ID] = item.Clone()
	}
}

// MergeFetched reconciles a server refetch with local state. A fetched row
// older than the local copy (by version stamp) is discarded so a stale
// refetch can never undo an optimistic write that is still in flight.
// Items absent from the fetch are dropped.
func (s *Store) MergeFetched(fetched []*domain.Insumo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := make([]string, 0, len(fetched))
	merged := make(map[string]*domain.Insumo, len(fetched))
	for _, item := range fetched {
		order = append(order, item.ID)
		if local, ok := s.items[item.ID]; ok && local.Version > item.Version {
			merged[item.ID] = local
			continue
		}
		merged[item.ID] = item.Clone()
	}
	s.order = order
	s.items = merged
}

// Get returns a clone of the item, if present.
func (s *Store) Get(id string) (*domain.Insumo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return item.Clone(), true
}

// List returns clones of all items in creation order.
func (s *Store) List() []*domain.Insumo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Insumo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// Lookup adapts the store for the drag engine's read-only resolution.
func (s *Store) Lookup() board.ItemLookup {
	return s.Get
}

// raw accessors for the reconciler, which holds no copy of its own.

func (s *Store) get(id string) (*domain.Insumo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

func (s *Store) put(item *domain.Insumo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
}

// version returns the current version stamp of an item, or -1 if absent.
func (s *Store) version(id string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if item, ok := s.items[id]; ok {
		return item.Version
	}
	return -1
}
