package source

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/mmcdole/gamelib/internal/domain"
)

const defaultPollInterval = 5 * time.Second

// SQLiteCollector polls the catalog for one source and emits a snapshot
// whenever its rows change.
type SQLiteCollector struct {
	catalog  *Catalog
	src      domain.Source
	interval time.Duration
	refresh  chan struct{}
	logger   *slog.Logger
}

// NewSQLiteCollector creates a collector for src.
func NewSQLiteCollector(catalog *Catalog, src domain.Source, interval time.Duration, logger *slog.Logger) *SQLiteCollector {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &SQLiteCollector{
		catalog:  catalog,
		src:      src,
		interval: interval,
		refresh:  make(chan struct{}, 1),
		logger:   logger,
	}
}

func (c *SQLiteCollector) Source() domain.Source { return c.src }

// Subscribe starts polling. The first read is always emitted, as an empty
// snapshot if it fails; later reads only when they differ. A failed later
// read keeps the previous snapshot. The channel closes when ctx is done.
func (c *SQLiteCollector) Subscribe(ctx context.Context) <-chan []domain.RawEntry {
	out := make(chan []domain.RawEntry)
	go c.run(ctx, out)
	return out
}

// Refresh asks the poll loop to re-read immediately.
func (c *SQLiteCollector) Refresh(ctx context.Context) error {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
	return nil
}

func (c *SQLiteCollector) run(ctx context.Context, out chan<- []domain.RawEntry) {
	defer close(out)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var last []domain.RawEntry
	emitted := false
	for {
		entries, err := c.catalog.Entries(ctx, c.src)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("catalog read failed", "source", c.src, "error", err)
			if emitted {
				break
			}
			// Subscribers get one snapshot even if the catalog never opens.
			select {
			case out <- []domain.RawEntry{}:
				last, emitted = []domain.RawEntry{}, true
			case <-ctx.Done():
				return
			}
		case !emitted || !reflect.DeepEqual(entries, last):
			select {
			case out <- entries:
				last, emitted = entries, true
				c.logger.Debug("catalog snapshot", "source", c.src, "count", len(entries))
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-c.refresh:
		}
	}
}
