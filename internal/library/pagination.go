package library

import "sync"

// Position describes where the current page sits in the page range.
type Position int

const (
	AtStart Position = iota
	MidList
	AtEnd
)

func (p Position) String() string {
	switch p {
	case AtStart:
		return "start"
	case AtEnd:
		return "end"
	default:
		return "middle"
	}
}

// PageState is the pagination window. Pages are zero-based; the visible
// slice is always the prefix [0, VisibleLen()).
type PageState struct {
	PageSize    int
	CurrentPage int
	LastPage    int
	TotalCount  int
}

// VisibleLen is the length of the prefix shown for the current page.
func (s PageState) VisibleLen() int {
	return min((s.CurrentPage+1)*s.PageSize, s.TotalCount)
}

// Position reports AtStart, MidList or AtEnd. A single page is AtStart.
func (s PageState) Position() Position {
	switch {
	case s.CurrentPage <= 0:
		return AtStart
	case s.CurrentPage >= s.LastPage:
		return AtEnd
	default:
		return MidList
	}
}

// HasMore reports whether another page can be loaded.
func (s PageState) HasMore() bool {
	return s.CurrentPage < s.LastPage
}

// Pager tracks a prefix-growing pagination window.
type Pager struct {
	mu       sync.Mutex
	state    PageState
	lastSeen int // loaded length that already triggered a viewport advance
}

// NewPager creates a pager. A non-positive size falls back to the default.
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{state: PageState{PageSize: pageSize}, lastSeen: -1}
}

// DefaultPageSize is used when no positive page size is configured.
const DefaultPageSize = 50

// Reset recomputes the last page for a new total and clamps page into range.
func (p *Pager) Reset(total, page int) PageState {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.TotalCount = max(total, 0)
	p.state.LastPage = lastPage(p.state.TotalCount, p.state.PageSize)
	p.state.CurrentPage = clamp(page, 0, p.state.LastPage)
	p.lastSeen = -1
	return p.state
}

// SetPageSize changes the page size, keeping the current page clamped.
func (p *Pager) SetPageSize(size int) PageState {
	if size <= 0 {
		size = DefaultPageSize
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.PageSize = size
	p.state.LastPage = lastPage(p.state.TotalCount, size)
	p.state.CurrentPage = clamp(p.state.CurrentPage, 0, p.state.LastPage)
	return p.state
}

// Advance moves the current page by delta, clamped to [0, LastPage].
// It reports whether the page changed.
func (p *Pager) Advance(delta int) (PageState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := clamp(p.state.CurrentPage+delta, 0, p.state.LastPage)
	if next == p.state.CurrentPage {
		return p.state, false
	}
	p.state.CurrentPage = next
	return p.state, true
}

// OnViewport advances one page when the last visible row reaches the end of
// the loaded list. Repeating the same signal before the loaded list grows is
// a no-op.
func (p *Pager) OnViewport(lastVisibleIndex, loadedLen int) (PageState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if loadedLen == 0 || lastVisibleIndex < loadedLen-1 {
		return p.state, false
	}
	if p.state.CurrentPage >= p.state.LastPage || p.lastSeen == loadedLen {
		return p.state, false
	}
	p.lastSeen = loadedLen
	p.state.CurrentPage++
	return p.state, true
}

// State returns the current window.
func (p *Pager) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func lastPage(total, size int) int {
	if total <= 0 {
		return 0
	}
	return (total - 1) / size
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
