// Package store holds the block positions of every viewport.
//
// A [Store] keeps one [geom.PositionSet] per viewport identifier. Sets are
// independent: a block may have different geometry on desktop and mobile, and
// a viewport can be added without touching controller code.
//
// Positions are seeded with [Store.Initialize] and mutated with [Store.Update],
// which is the single write channel gestures use. The store never deletes a
// position on its own; phantom cleanup is an explicit [Store.Prune] call made
// by the owner once no gesture is in flight.
package store

import (
	"sort"
	"sync"

	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/observability"
)

// Change describes one mutation of the store.
type Change struct {
	Viewport geom.Viewport
	// IDs lists the affected blocks; nil means the whole viewport was replaced.
	IDs []string
}

// Store is an in-memory, viewport-keyed position store. It is safe for
// concurrent use.
type Store struct {
	mu        sync.RWMutex
	sets      map[geom.Viewport]geom.PositionSet
	revision  uint64
	listeners map[int]func(Change)
	nextID    int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		sets:      make(map[geom.Viewport]geom.PositionSet),
		listeners: make(map[int]func(Change)),
	}
}

// Positions returns a copy of the position set of vp.
func (s *Store) Positions(vp geom.Viewport) geom.PositionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets[vp].Clone()
}

// Get returns the position of id in vp.
func (s *Store) Get(vp geom.Viewport, id string) (geom.BlockPosition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.sets[vp][id]
	return p, ok
}

// Has reports whether id has a position in vp.
func (s *Store) Has(vp geom.Viewport, id string) bool {
	_, ok := s.Get(vp, id)
	return ok
}

// Viewports returns the viewports that hold at least one position, sorted.
func (s *Store) Viewports() []geom.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]geom.Viewport, 0, len(s.sets))
	for vp, set := range s.sets {
		if len(set) > 0 {
			out = append(out, vp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Revision returns a counter incremented by every mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Initialize stores p as the first position of p.ID in vp. An existing
// position is left untouched and Initialize reports false.
func (s *Store) Initialize(vp geom.Viewport, p geom.BlockPosition) bool {
	s.mu.Lock()
	set := s.set(vp)
	if _, ok := set[p.ID]; ok {
		s.mu.Unlock()
		return false
	}
	set[p.ID] = p
	s.revision++
	s.mu.Unlock()

	observability.Store().OnInitialize(string(vp), p.ID)
	s.notify(Change{Viewport: vp, IDs: []string{p.ID}})
	return true
}

// Update applies partial to the position of id in vp. Fields absent from
// partial are unchanged. Unknown ids are ignored and Update reports false.
func (s *Store) Update(vp geom.Viewport, id string, partial geom.Partial) bool {
	s.mu.Lock()
	cur, ok := s.sets[vp][id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	next := partial.Apply(cur)
	next.ID = id
	s.sets[vp][id] = next
	s.revision++
	s.mu.Unlock()

	observability.Store().OnUpdate(string(vp), id)
	s.notify(Change{Viewport: vp, IDs: []string{id}})
	return true
}

// Replace swaps the whole position set of vp, e.g. after loading a document.
func (s *Store) Replace(vp geom.Viewport, set geom.PositionSet) {
	s.mu.Lock()
	next := set.Clone()
	for id, p := range next {
		p.ID = id
		next[id] = p
	}
	s.sets[vp] = next
	s.revision++
	s.mu.Unlock()

	s.notify(Change{Viewport: vp})
}

// Prune removes the positions of ids from vp and returns how many existed.
func (s *Store) Prune(vp geom.Viewport, ids []string) int {
	s.mu.Lock()
	set := s.sets[vp]
	var removed []string
	for _, id := range ids {
		if _, ok := set[id]; ok {
			delete(set, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		s.revision++
	}
	s.mu.Unlock()

	if len(removed) > 0 {
		observability.Store().OnPrune(string(vp), len(removed))
		s.notify(Change{Viewport: vp, IDs: removed})
	}
	return len(removed)
}

// Subscribe registers fn to run after every mutation and returns a function
// that removes it. fn runs outside the store lock and may read the store.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), len(ids))
	for i, id := range ids {
		fns[i] = s.listeners[id]
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

// set returns the position set of vp, creating it. Callers hold s.mu.
func (s *Store) set(vp geom.Viewport) geom.PositionSet {
	set, ok := s.sets[vp]
	if !ok {
		set = make(geom.PositionSet)
		s.sets[vp] = set
	}
	return set
}
