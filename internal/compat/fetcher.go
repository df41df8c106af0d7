package compat

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/gamelib/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize is the number of names sent per remote call.
	DefaultBatchSize = 25

	defaultConcurrency = 2

	// UnknownIdentity is the placeholder reported when the GPU cannot be resolved.
	UnknownIdentity = "Unknown GPU"
)

// ApplyFunc receives statuses keyed by the caller's game names.
// It may be called from several goroutines.
type ApplyFunc func(map[string]domain.CompatStatus)

// EnrichResult summarizes one enrichment pass.
type EnrichResult struct {
	Cached        int
	Fetched       int
	Calls         int
	FailedBatches int
	Skipped       bool     // identity unknown, network skipped
	Uncached      []string // names still missing after the pass
}

// Fetcher resolves compatibility for visible names, cache first.
type Fetcher struct {
	cache       *Cache
	client      domain.CompatClient
	batchSize   int
	concurrency int
	logger      *slog.Logger
}

// FetcherOptions tunes batching.
type FetcherOptions struct {
	BatchSize   int // defaults to 25
	Concurrency int // concurrent batch calls, defaults to 2
}

// NewFetcher creates a fetcher over cache and client.
func NewFetcher(cache *Cache, client domain.CompatClient, opts FetcherOptions, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Fetcher{
		cache:       cache,
		client:      client,
		batchSize:   opts.BatchSize,
		concurrency: opts.Concurrency,
		logger:      logger,
	}
}

// IsUnknownIdentity reports whether identity cannot partition a lookup.
func IsUnknownIdentity(identity string) bool {
	id := strings.TrimSpace(identity)
	return id == "" || strings.EqualFold(id, UnknownIdentity)
}

// Enrich applies cached statuses immediately, then fetches the rest in
// batches. A failed batch is logged and its names stay uncached for the
// next pass.
func (f *Fetcher) Enrich(ctx context.Context, names []string, identity string, apply ApplyFunc) EnrichResult {
	var res EnrichResult
	if len(names) == 0 {
		return res
	}

	cached := make(map[string]domain.CompatStatus)
	var uncached []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if e, ok := f.cache.Get(name); ok {
			cached[name] = e.Status
		} else {
			uncached = append(uncached, name)
		}
	}
	res.Cached = len(cached)

	if len(cached) > 0 && apply != nil {
		apply(cached)
	}
	if len(uncached) == 0 {
		f.logger.Debug("all names cached, skipping compatibility fetch", "count", res.Cached)
		return res
	}

	if IsUnknownIdentity(identity) {
		f.logger.Warn("skipping compatibility fetch", "error", domain.ErrUnknownIdentity)
		res.Skipped = true
		res.Uncached = uncached
		return res
	}

	var (
		mu      sync.Mutex
		missing []string
	)

	g := new(errgroup.Group)
	g.SetLimit(f.concurrency)

	for _, batch := range chunk(uncached, f.batchSize) {
		g.Go(func() error {
			statuses, ok := f.fetchBatch(ctx, batch, identity)

			mu.Lock()
			res.Calls++
			if !ok {
				res.FailedBatches++
				missing = append(missing, batch...)
			} else {
				res.Fetched += len(statuses)
				for _, name := range batch {
					if _, got := statuses[name]; !got {
						missing = append(missing, name)
					}
				}
			}
			mu.Unlock()

			if ok && len(statuses) > 0 && apply != nil {
				apply(statuses)
			}
			return nil
		})
	}
	_ = g.Wait()

	res.Uncached = missing
	f.logger.Debug("compatibility enrichment done",
		"cached", res.Cached, "fetched", res.Fetched,
		"calls", res.Calls, "failedBatches", res.FailedBatches)
	return res
}

// fetchBatch performs one remote call, caches what came back, and returns
// statuses keyed by the requested names.
func (f *Fetcher) fetchBatch(ctx context.Context, batch []string, identity string) (map[string]domain.CompatStatus, bool) {
	reports, err := f.client.FetchCompatibility(ctx, batch, identity)
	if err != nil || reports == nil {
		f.logger.Warn("compatibility batch failed", "error", err, "size", len(batch))
		return nil, false
	}

	byKey := make(map[string]domain.CompatReport, len(reports))
	for name, r := range reports {
		byKey[Key(name)] = r
	}

	entries := make(map[string]Entry, len(batch))
	statuses := make(map[string]domain.CompatStatus, len(batch))
	for _, name := range batch {
		r, ok := reports[name]
		if !ok {
			r, ok = byKey[Key(name)]
		}
		if !ok {
			continue
		}
		e := NewEntry(name, r)
		entries[name] = e
		statuses[name] = e.Status
	}

	f.cache.SetAll(entries)
	return statuses, true
}

// chunk splits names into consecutive slices of at most size elements.
func chunk(names []string, size int) [][]string {
	var out [][]string
	for i := 0; i < len(names); i += size {
		end := min(i+size, len(names))
		out = append(out, names[i:end])
	}
	return out
}
