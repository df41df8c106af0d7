// Package source provides the catalog collectors feeding the library.
package source

import (
	"log/slog"

	"github.com/mmcdole/gamelib/internal/adapter"
	"github.com/mmcdole/gamelib/internal/domain"
)

// Set is the collection of collectors built from configuration.
type Set struct {
	Collectors []domain.Collector
	Catalog    *Catalog // nil when no catalog database is configured
	Folders    *FolderCollector
	Installs   *InstallDir
}

// NewFromConfig builds one SQLite collector per storefront source when a
// catalog database is configured, plus the custom folder collector.
func NewFromConfig(cfg *adapter.Config, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sc := cfg.Sources
	set := &Set{Installs: NewInstallDir(adapter.ExpandPath(sc.InstallDir), logger)}

	if sc.CatalogDB != "" {
		catalog, err := OpenCatalog(adapter.ExpandPath(sc.CatalogDB))
		if err != nil {
			return nil, err
		}
		set.Catalog = catalog
		for _, src := range CatalogSources {
			set.Collectors = append(set.Collectors,
				NewSQLiteCollector(catalog, src, sc.PollInterval, logger.With("source", src)))
		}
	}

	set.Folders = NewFolderCollector(adapter.ExpandPath(sc.CustomRoot), sc.CustomFolders, logger.With("source", domain.SourceCustom))
	set.Collectors = append(set.Collectors, set.Folders)
	return set, nil
}

// Close releases the catalog database.
func (s *Set) Close() error {
	return s.Catalog.Close()
}
