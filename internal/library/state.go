package library

import (
	"maps"
	"sync"

	"github.com/mmcdole/gamelib/internal/domain"
)

// Snapshot is an immutable view of the library state. Slices and maps in a
// published snapshot are never mutated; updates replace them.
type Snapshot struct {
	Entries     []domain.LibraryEntry
	CurrentPage int
	LastPage    int
	TotalCount  int
	PageSize    int

	IsLoading    bool
	IsRefreshing bool
	IsSearching  bool
	SearchQuery  string

	Filter        domain.FilterSet
	Visible       map[domain.Source]bool
	Counts        domain.SourceCounts
	SkeletonCount int

	Compat map[string]domain.CompatStatus

	Generation uint64
}

// DisplayPage is the one-based page number shown to users.
func (s Snapshot) DisplayPage() int { return s.CurrentPage + 1 }

// Position reports where the current page sits in the page range.
func (s Snapshot) Position() Position {
	return PageState{CurrentPage: s.CurrentPage, LastPage: s.LastPage}.Position()
}

// CompatFor returns the status for name, or CompatUnknown.
func (s Snapshot) CompatFor(name string) domain.CompatStatus {
	if st, ok := s.Compat[name]; ok {
		return st
	}
	return domain.CompatUnknown
}

// PassResult is the outcome of one filter or page pass.
type PassResult struct {
	Entries []domain.LibraryEntry
	Page    PageState
	Counts  domain.SourceCounts
}

// StateStore holds the current Snapshot and notifies subscribers on change.
// Writers stamp passes with a generation so an older pass that finishes late
// cannot overwrite a newer one.
type StateStore struct {
	mu      sync.RWMutex
	snap    Snapshot
	issued  uint64
	subs    map[int]chan struct{}
	nextSub int
}

// NewStateStore creates a store seeded with initial.
func NewStateStore(initial Snapshot) *StateStore {
	if initial.Compat == nil {
		initial.Compat = map[string]domain.CompatStatus{}
	}
	return &StateStore{snap: initial, subs: make(map[int]chan struct{})}
}

// Snapshot returns the current state.
func (s *StateStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// BeginPass issues a new generation and marks the store as loading.
func (s *StateStore) BeginPass() uint64 {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	changed := !s.snap.IsLoading
	s.snap.IsLoading = true
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return gen
}

// IsLatest reports whether gen is the most recently issued generation.
func (s *StateStore) IsLatest(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gen == s.issued
}

// ApplyPass publishes a pass result. Results from superseded generations are
// dropped and ApplyPass returns false.
func (s *StateStore) ApplyPass(gen uint64, r PassResult) bool {
	s.mu.Lock()
	if gen != s.issued {
		s.mu.Unlock()
		return false
	}
	next := s.snap
	next.Entries = r.Entries
	next.CurrentPage = r.Page.CurrentPage
	next.LastPage = r.Page.LastPage
	next.TotalCount = r.Page.TotalCount
	next.PageSize = r.Page.PageSize
	next.Counts = r.Counts
	next.IsLoading = false
	next.Generation = gen
	s.snap = next
	s.mu.Unlock()

	s.notify()
	return true
}

// MergeCompat folds statuses into the compatibility map. It is a
// read-modify-write under the store lock so concurrent batches never lose
// each other's results.
func (s *StateStore) MergeCompat(statuses map[string]domain.CompatStatus) {
	if len(statuses) == 0 {
		return
	}
	s.mu.Lock()
	next := maps.Clone(s.snap.Compat)
	if next == nil {
		next = make(map[string]domain.CompatStatus, len(statuses))
	}
	maps.Copy(next, statuses)
	s.snap.Compat = next
	s.mu.Unlock()

	s.notify()
}

// ResetCompat drops every known compatibility status.
func (s *StateStore) ResetCompat() {
	s.mu.Lock()
	s.snap.Compat = map[string]domain.CompatStatus{}
	s.mu.Unlock()
	s.notify()
}

// Update applies fn to a copy of the snapshot and publishes it. fn must
// replace, not mutate, any slice or map it changes.
func (s *StateStore) Update(fn func(*Snapshot)) {
	s.mu.Lock()
	next := s.snap
	fn(&next)
	s.snap = next
	s.mu.Unlock()

	s.notify()
}

// Subscribe returns a channel that receives a signal after each change and a
// function that cancels the subscription. Signals coalesce: a slow reader
// sees at least one signal after the latest change.
func (s *StateStore) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *StateStore) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
