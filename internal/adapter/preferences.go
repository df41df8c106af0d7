package adapter

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/gamelib/internal/domain"
)

// Preferences implements domain.Preferences on top of Config.
// Mutations are written back through save, one save at a time.
type Preferences struct {
	mu     sync.RWMutex
	saveMu sync.Mutex
	cfg    *Config
	save   func(*Config) error
	logger *slog.Logger
}

// NewPreferences wraps cfg. save may be nil to keep changes in memory only.
func NewPreferences(cfg *Config, save func(*Config) error, logger *slog.Logger) *Preferences {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Preferences{cfg: cfg, save: save, logger: logger}
}

func (p *Preferences) ItemsPerPage() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cfg.Library.ItemsPerPage <= 0 {
		return defaultItemsPerPage
	}
	return p.cfg.Library.ItemsPerPage
}

func (p *Preferences) SourceVisible(src domain.Source) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch src {
	case domain.SourceSteam:
		return p.cfg.Library.ShowSteam
	case domain.SourceGOG:
		return p.cfg.Library.ShowGOG
	case domain.SourceCustom:
		return p.cfg.Library.ShowCustom
	default:
		return true
	}
}

func (p *Preferences) SetSourceVisible(src domain.Source, visible bool) {
	p.mu.Lock()
	switch src {
	case domain.SourceSteam:
		p.cfg.Library.ShowSteam = visible
	case domain.SourceGOG:
		p.cfg.Library.ShowGOG = visible
	case domain.SourceCustom:
		p.cfg.Library.ShowCustom = visible
	}
	p.mu.Unlock()
	p.persist("source visibility")
}

// Filter returns the persisted filter, falling back to the default when the
// stored names cannot be parsed.
func (p *Preferences) Filter() domain.FilterSet {
	p.mu.RLock()
	names := p.cfg.Library.Filter
	p.mu.RUnlock()

	f, ok := domain.FilterFromNames(names)
	if !ok {
		p.logger.Warn("malformed library filter, using default", "filter", names)
		return domain.DefaultFilter
	}
	return f
}

func (p *Preferences) SetFilter(f domain.FilterSet) {
	p.mu.Lock()
	p.cfg.Library.Filter = f.Names()
	p.mu.Unlock()
	p.persist("filter")
}

func (p *Preferences) FuzzySearch() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.Library.FuzzySearch
}

func (p *Preferences) Identity() domain.Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return domain.Identity{
		AccountID: p.cfg.Account.UserID,
		FamilyIDs: append([]int(nil), p.cfg.Account.FamilyIDs...),
	}
}

func (p *Preferences) Counts() domain.SourceCounts {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return domain.SourceCounts{
		Steam:        p.cfg.Counts.SteamGames,
		GOG:          p.cfg.Counts.GOGGames,
		GOGInstalled: p.cfg.Counts.GOGInstalledGames,
		Custom:       p.cfg.Counts.CustomGames,
	}
}

// SaveCounts stores count hints; unchanged counts are not rewritten.
func (p *Preferences) SaveCounts(c domain.SourceCounts) {
	p.mu.Lock()
	next := CountsConfig{
		SteamGames:        c.Steam,
		GOGGames:          c.GOG,
		GOGInstalledGames: c.GOGInstalled,
		CustomGames:       c.Custom,
	}
	changed := p.cfg.Counts != next
	p.cfg.Counts = next
	p.mu.Unlock()

	if changed {
		p.persist("counts")
	}
}

func (p *Preferences) persist(what string) {
	if p.save == nil {
		return
	}
	// The snapshot is taken under saveMu so the last save always carries
	// the latest values.
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.RLock()
	snapshot := *p.cfg
	p.mu.RUnlock()

	if err := p.save(&snapshot); err != nil {
		p.logger.Error("failed to save preferences", "error", err, "field", what)
	}
}
