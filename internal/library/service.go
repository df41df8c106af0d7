package library

import (
	"context"
	"log/slog"
	"maps"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gamelib/internal/compat"
	"github.com/mmcdole/gamelib/internal/domain"
)

// keepPage asks a pass to stay on the current page instead of resetting.
const keepPage = -1

// Options wires the service's collaborators. Every field is optional.
type Options struct {
	Collectors      []domain.Collector
	Fetcher         *compat.Fetcher
	Cache           *compat.Cache
	Installs        domain.InstallIndex
	DisplayIdentity string // compatibility partition, e.g. a GPU name
	Debounce        time.Duration
}

// Service coordinates collectors, filter passes, pagination, the state
// store and compatibility enrichment.
type Service struct {
	prefs      domain.Preferences
	engine     *Engine
	pager      *Pager
	debouncer  *Debouncer
	state      *StateStore
	fetcher    *compat.Fetcher
	cache      *compat.Cache
	installs   domain.InstallIndex
	collectors []domain.Collector
	identity   string
	logger     *slog.Logger

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	snapshots map[domain.Source][]domain.RawEntry
	query     string
	version   uint64 // bumped on every merge input change
	merged    []domain.LibraryEntry
	mergedFor uint64
	closed    bool

	toggleMu sync.Mutex // preference read-modify-write

	wg   sync.WaitGroup // collector loops
	work sync.WaitGroup // passes and enrichment
}

// NewService creates a library service.
func NewService(prefs domain.Preferences, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Service{
		prefs:      prefs,
		engine:     NewEngine(logger),
		pager:      NewPager(prefs.ItemsPerPage()),
		fetcher:    opts.Fetcher,
		cache:      opts.Cache,
		installs:   opts.Installs,
		collectors: opts.Collectors,
		identity:   opts.DisplayIdentity,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		snapshots:  make(map[domain.Source][]domain.RawEntry),
	}
	s.debouncer = NewDebouncer(opts.Debounce, s.onQuery)
	s.state = NewStateStore(s.initialSnapshot())
	return s
}

func (s *Service) initialSnapshot() Snapshot {
	counts := s.prefs.Counts()
	visible := s.visibility()
	skeleton := 0
	if visible[domain.SourceSteam] {
		skeleton += counts.Steam
	}
	if visible[domain.SourceGOG] {
		skeleton += counts.GOG
	}
	if visible[domain.SourceCustom] {
		skeleton += counts.Custom
	}
	return Snapshot{
		IsLoading:     true,
		PageSize:      s.pager.State().PageSize,
		Filter:        s.prefs.Filter(),
		Visible:       visible,
		Counts:        counts,
		SkeletonCount: min(skeleton, s.pager.State().PageSize),
	}
}

func (s *Service) visibility() map[domain.Source]bool {
	out := make(map[domain.Source]bool, len(domain.Sources))
	for _, src := range domain.Sources {
		out[src] = s.prefs.SourceVisible(src)
	}
	return out
}

// Start subscribes to every collector. Snapshots are consumed until ctx is
// cancelled or Close is called.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	s.cancel()
	s.ctx, s.cancel = context.WithCancel(ctx)
	runCtx := s.ctx
	s.mu.Unlock()

	for _, c := range s.collectors {
		ch := c.Subscribe(runCtx)
		src := c.Source()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-runCtx.Done():
					return
				case snap, ok := <-ch:
					if !ok {
						return
					}
					s.onSnapshot(src, snap)
				}
			}
		}()
	}

	// Sources without collectors still need one pass to leave the loading state.
	if len(s.collectors) == 0 {
		s.schedulePass(0)
	}
}

func (s *Service) onSnapshot(src domain.Source, snap []domain.RawEntry) {
	s.mu.Lock()
	if prev, ok := s.snapshots[src]; ok && reflect.DeepEqual(prev, snap) {
		s.mu.Unlock()
		return
	}
	s.snapshots[src] = snap
	s.version++
	s.mu.Unlock()

	s.logger.Debug("source snapshot", "source", src, "count", len(snap))
	s.schedulePass(keepPage)
}

// SetQuery records a search edit. The pass runs after the debounce period.
func (s *Service) SetQuery(query string) {
	s.state.Update(func(snap *Snapshot) { snap.SearchQuery = query })
	s.debouncer.Edit(query)
}

// SetSearching toggles search mode. Leaving search clears the query and
// runs an unfiltered pass immediately.
func (s *Service) SetSearching(on bool) {
	s.state.Update(func(snap *Snapshot) {
		snap.IsSearching = on
		if !on {
			snap.SearchQuery = ""
		}
	})
	if !on {
		s.debouncer.Clear()
	}
}

func (s *Service) onQuery(query string) {
	s.mu.Lock()
	if s.query == query && query == "" && s.merged != nil {
		s.mu.Unlock()
		return
	}
	s.query = query
	s.version++
	s.mu.Unlock()

	s.schedulePass(0)
}

// ToggleFilter flips one filter flag, persists it and reruns from page zero.
func (s *Service) ToggleFilter(flag domain.FilterFlag) {
	s.toggleMu.Lock()
	next := s.prefs.Filter().Toggle(flag)
	s.prefs.SetFilter(next)
	s.toggleMu.Unlock()

	s.state.Update(func(snap *Snapshot) { snap.Filter = next })
	s.invalidate()
	s.schedulePass(0)
}

// ToggleSource flips visibility of src and reruns on the current page.
func (s *Service) ToggleSource(src domain.Source) {
	s.toggleMu.Lock()
	s.prefs.SetSourceVisible(src, !s.prefs.SourceVisible(src))
	s.toggleMu.Unlock()

	visible := s.visibility()
	s.state.Update(func(snap *Snapshot) { snap.Visible = visible })
	s.invalidate()
	s.schedulePass(keepPage)
}

// SetPageSize changes the page size and reruns from page zero.
func (s *Service) SetPageSize(size int) {
	s.pager.SetPageSize(size)
	s.invalidate()
	s.schedulePass(0)
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.version++
	s.mu.Unlock()
}

// PageChange moves the current page by delta. With no pending input change
// the visible prefix is recomputed from the last merge without refiltering.
func (s *Service) PageChange(delta int) {
	st, changed := s.pager.Advance(delta)
	if !changed {
		return
	}
	s.applyPage(st)
}

// OnViewport advances one page when the last visible row reaches the end of
// the loaded list.
func (s *Service) OnViewport(lastVisibleIndex int) {
	loaded := len(s.state.Snapshot().Entries)
	st, changed := s.pager.OnViewport(lastVisibleIndex, loaded)
	if !changed {
		return
	}
	s.applyPage(st)
}

func (s *Service) applyPage(st PageState) {
	s.mu.Lock()
	if s.merged == nil || s.mergedFor != s.version {
		s.mu.Unlock()
		s.schedulePass(keepPage)
		return
	}
	gen := s.state.BeginPass()
	visible := s.merged[:min(st.VisibleLen(), len(s.merged))]
	applied := s.state.ApplyPass(gen, PassResult{
		Entries: visible,
		Page:    st,
		Counts:  s.state.Snapshot().Counts,
	})
	s.mu.Unlock()

	if applied {
		s.enrich(visible)
	}
}

// schedulePass runs a merge pass in the background. page is the page to
// land on, or keepPage.
func (s *Service) schedulePass(page int) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.work.Add(1)
	s.mu.Unlock()

	gen := s.state.BeginPass()
	go func() {
		defer s.work.Done()
		if visible, ok := s.pass(gen, page); ok {
			s.enrich(visible)
		}
	}()
}

// pass merges the current inputs and publishes the result if gen is still
// the latest generation.
func (s *Service) pass(gen uint64, page int) ([]domain.LibraryEntry, bool) {
	s.mu.Lock()
	in := MergeInput{
		Snapshots: maps.Clone(s.snapshots),
		Filter:    s.prefs.Filter(),
		Visible:   s.visibility(),
		Query:     s.query,
		Identity:  s.prefs.Identity(),
		Fuzzy:     s.prefs.FuzzySearch(),
	}
	version := s.version
	s.mu.Unlock()

	if s.installs != nil {
		in.Installed = s.installs.Lookup()
	}
	res := s.engine.Merge(in)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsLatest(gen) {
		s.logger.Debug("dropping stale pass", "generation", gen)
		return nil, false
	}

	if page == keepPage {
		page = s.pager.State().CurrentPage
	}
	st := s.pager.Reset(res.Total, page)
	visible := res.Entries[:st.VisibleLen()]
	if !s.state.ApplyPass(gen, PassResult{Entries: visible, Page: st, Counts: res.Counts}) {
		return nil, false
	}
	s.merged = res.Entries
	s.mergedFor = version

	// Counts describe the filter, not the search. Saved under s.mu so a
	// newer pass cannot be overtaken by an older one.
	if strings.TrimSpace(in.Query) == "" {
		s.prefs.SaveCounts(res.Counts)
	}
	return visible, true
}

func (s *Service) enrich(entries []domain.LibraryEntry) {
	if s.fetcher == nil || len(entries) == 0 {
		return
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	s.work.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.work.Done()
		s.fetcher.Enrich(ctx, names, s.identity, s.state.MergeCompat)
	}()
}

// Refreshable is implemented by collectors that can re-read their source on
// demand.
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Refresh clears the compatibility cache, asks collectors to re-read and
// reruns the pipeline from page zero. Enrichment of the visible slice runs
// synchronously so callers can wait for fresh statuses.
func (s *Service) Refresh(ctx context.Context) error {
	s.state.Update(func(snap *Snapshot) { snap.IsRefreshing = true })
	defer s.state.Update(func(snap *Snapshot) { snap.IsRefreshing = false })

	if s.cache != nil {
		s.cache.Clear()
	}
	s.state.ResetCompat()

	for _, c := range s.collectors {
		r, ok := c.(Refreshable)
		if !ok {
			continue
		}
		if err := r.Refresh(ctx); err != nil {
			s.logger.Warn("collector refresh failed", "source", c.Source(), "error", err)
		}
	}

	gen := s.state.BeginPass()
	visible, ok := s.pass(gen, 0)
	if !ok || s.fetcher == nil || len(visible) == 0 {
		return ctx.Err()
	}

	names := make([]string, len(visible))
	for i, e := range visible {
		names[i] = e.Name
	}
	res := s.fetcher.Enrich(ctx, names, s.identity, s.state.MergeCompat)
	s.logger.Info("library refreshed",
		"visible", len(visible), "fetched", res.Fetched, "failedBatches", res.FailedBatches)
	return ctx.Err()
}

// Snapshot returns the current state.
func (s *Service) Snapshot() Snapshot {
	return s.state.Snapshot()
}

// Updates subscribes to state changes.
func (s *Service) Updates() (<-chan struct{}, func()) {
	return s.state.Subscribe()
}

// Wait blocks until in-flight passes and enrichment finish.
func (s *Service) Wait() {
	s.work.Wait()
}

// Close stops the debouncer and collectors and waits for background work.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.cancel()
	s.mu.Unlock()

	s.debouncer.Stop()
	s.wg.Wait()
	s.work.Wait()
}
