// Package compat caches and fetches per-game compatibility reports.
package compat

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gamelib/internal/domain"
	"golang.org/x/text/cases"
)

// Entry is one cached compatibility lookup.
type Entry struct {
	Key      string              `json:"key"`
	Status   domain.CompatStatus `json:"status"`
	Report   domain.CompatReport `json:"report"`
	CachedAt time.Time           `json:"cachedAt"`
}

// Persister is the durable backing store behind the in-memory cache.
type Persister interface {
	Load() (map[string]Entry, error)
	Put(entries map[string]Entry) error
	Clear() error
}

// Key normalizes a game name into a cache key.
func Key(name string) string {
	// Casers are stateful, so one is built per call.
	return cases.Fold().String(strings.TrimSpace(name))
}

// NewEntry builds a cache entry from a remote report.
func NewEntry(name string, report domain.CompatReport) Entry {
	return Entry{
		Key:      Key(name),
		Status:   report.Status(),
		Report:   report,
		CachedAt: time.Now(),
	}
}

// Cache is a concurrency-safe name -> Entry map with optional persistence.
// There is no expiry: callers Clear when they want fresh data.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry

	persist Persister
	logger  *slog.Logger
}

// NewCache creates a cache. persist may be nil for memory-only mode.
func NewCache(persist Persister, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries: make(map[string]Entry),
		persist: persist,
		logger:  logger,
	}
}

// Load warms the memory map from the persister. Entries already in memory win.
func (c *Cache) Load() error {
	if c.persist == nil {
		return nil
	}
	stored, err := c.persist.Load()
	if err != nil {
		return err
	}

	c.mu.Lock()
	for k, e := range stored {
		if _, ok := c.entries[k]; !ok {
			c.entries[k] = e
		}
	}
	n := len(c.entries)
	c.mu.Unlock()

	c.logger.Debug("loaded compatibility cache", "count", n)
	return nil
}

// Get returns the cached entry for name.
func (c *Cache) Get(name string) (Entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[Key(name)]
	c.mu.RUnlock()
	return e, ok
}

// Set stores a single entry. Last write wins.
func (c *Cache) Set(name string, e Entry) {
	c.SetAll(map[string]Entry{name: e})
}

// SetAll stores a batch of entries keyed by game name. Entries are stored
// as given; only the map key is normalized.
func (c *Cache) SetAll(batch map[string]Entry) {
	if len(batch) == 0 {
		return
	}

	normalized := make(map[string]Entry, len(batch))
	for name, e := range batch {
		normalized[Key(name)] = e
	}

	c.mu.Lock()
	for k, e := range normalized {
		c.entries[k] = e
	}
	c.mu.Unlock()

	if c.persist != nil {
		if err := c.persist.Put(normalized); err != nil {
			c.logger.Error("failed to persist compatibility entries", "error", err, "count", len(normalized))
		}
	}
}

// Clear drops every entry from memory and the persister.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	if c.persist != nil {
		if err := c.persist.Clear(); err != nil {
			c.logger.Error("failed to clear persisted compatibility cache", "error", err)
		}
	}
	c.logger.Info("compatibility cache cleared")
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
