package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gamelib/internal/adapter"
	"github.com/mmcdole/gamelib/internal/adapter/compatapi"
	"github.com/mmcdole/gamelib/internal/adapter/source"
	"github.com/mmcdole/gamelib/internal/compat"
	"github.com/mmcdole/gamelib/internal/library"
	"github.com/mmcdole/gamelib/internal/store"
)

// app holds the wired components for one command run.
type app struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	sources *source.Set
	store   *store.CompatStore
	cache   *compat.Cache
	svc     *library.Service
}

// setup loads configuration and the file logger.
func setup() (*adapter.Config, *slog.Logger, error) {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func compatIdentity(cfg *adapter.Config) string {
	if id := strings.TrimSpace(cfg.Compat.Identity); id != "" {
		return id
	}
	return compat.UnknownIdentity
}

func newApp(cfg *adapter.Config, logger *slog.Logger, debounce time.Duration) (*app, error) {
	sources, err := source.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open sources: %w", err)
	}

	identity := compatIdentity(cfg)
	cs, err := store.NewCompatStore(adapter.ExpandPath(cfg.Cache.Path), identity)
	if err != nil {
		sources.Close()
		return nil, fmt.Errorf("failed to open compatibility cache: %w", err)
	}

	cache := compat.NewCache(cs, logger)
	if err := cache.Load(); err != nil {
		logger.Warn("failed to warm compatibility cache", "error", err)
	}

	client := compatapi.New(compatapi.Options{
		Endpoint: cfg.Compat.URL,
		Timeout:  cfg.Compat.Timeout,
		RetryMax: cfg.Compat.RetryMax,
	}, logger)
	fetcher := compat.NewFetcher(cache, client, compat.FetcherOptions{
		BatchSize:   cfg.Compat.BatchSize,
		Concurrency: cfg.Compat.Concurrency,
	}, logger)

	prefs := adapter.NewPreferences(cfg, adapter.SaveConfig, logger)
	svc := library.NewService(prefs, library.Options{
		Collectors:      sources.Collectors,
		Fetcher:         fetcher,
		Cache:           cache,
		Installs:        sources.Installs,
		DisplayIdentity: identity,
		Debounce:        debounce,
	}, logger)

	return &app{cfg: cfg, logger: logger, sources: sources, store: cs, cache: cache, svc: svc}, nil
}

func (a *app) Close() {
	a.svc.Close()
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close compatibility cache", "error", err)
	}
	if err := a.sources.Close(); err != nil {
		a.logger.Warn("failed to close catalog", "error", err)
	}
}
