package library

import (
	"sync"

	"github.com/mmcdole/gamelib/internal/domain"
)

type fakePrefs struct {
	mu       sync.Mutex
	pageSize int
	hidden   map[domain.Source]bool
	filter   domain.FilterSet
	fuzzy    bool
	identity domain.Identity
	counts   domain.SourceCounts
	saves    int
}

func newFakePrefs(pageSize int) *fakePrefs {
	return &fakePrefs{
		pageSize: pageSize,
		hidden:   map[domain.Source]bool{},
		filter:   domain.DefaultFilter,
	}
}

func (p *fakePrefs) ItemsPerPage() int { return p.pageSize }

func (p *fakePrefs) SourceVisible(src domain.Source) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.hidden[src]
}

func (p *fakePrefs) SetSourceVisible(src domain.Source, visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden[src] = !visible
}

func (p *fakePrefs) Filter() domain.FilterSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

func (p *fakePrefs) SetFilter(f domain.FilterSet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter = f
}

func (p *fakePrefs) FuzzySearch() bool { return p.fuzzy }

func (p *fakePrefs) Identity() domain.Identity { return p.identity }

func (p *fakePrefs) Counts() domain.SourceCounts {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts
}

func (p *fakePrefs) SaveCounts(c domain.SourceCounts) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts = c
	p.saves++
}

func (p *fakePrefs) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

func game(id, name string) domain.RawEntry {
	return domain.RawEntry{ID: id, Name: name}
}

func names(entries []domain.LibraryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
