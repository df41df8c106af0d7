package library

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/gamelib/internal/domain"
	"golang.org/x/text/cases"
)

// MergeInput is everything one filter pass reads.
type MergeInput struct {
	Snapshots map[domain.Source][]domain.RawEntry
	Filter    domain.FilterSet
	Visible   map[domain.Source]bool // nil or missing key = visible
	Query     string
	Identity  domain.Identity
	Installed domain.InstalledLookup // may be nil
	Fuzzy     bool
}

// MergeResult is the ordered, indexed output of a pass.
type MergeResult struct {
	Entries   []domain.LibraryEntry
	PerSource map[domain.Source]int // filtered counts before visibility
	Counts    domain.SourceCounts
	Total     int
}

// Engine merges per-source snapshots into one filtered, sorted list.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// sortable pairs an entry with its precomputed sort key.
type sortable struct {
	entry domain.LibraryEntry
	key   string
}

// Merge runs the filter pipeline. It never fails: empty input yields an
// empty result and entries with empty names sort as "".
func (e *Engine) Merge(in MergeInput) MergeResult {
	folder := cases.Fold()
	query := folder.String(strings.TrimSpace(in.Query))

	res := MergeResult{PerSource: make(map[domain.Source]int)}
	var combined []sortable

	for _, src := range orderedSources(in.Snapshots) {
		var kept []sortable
		installedCount := 0

		for _, raw := range in.Snapshots[src] {
			if !e.owned(src, raw, in) {
				continue
			}
			if !in.Filter.MatchesType(raw.AppType()) {
				continue
			}
			if !matchQuery(folder, raw.Name, query, in.Fuzzy) {
				continue
			}
			installed := raw.Installed ||
				(in.Installed != nil && raw.InstallDir != "" && in.Installed(raw.InstallDir))
			if in.Filter.Has(domain.FilterInstalled) && !installed {
				continue
			}
			if installed {
				installedCount++
			}

			kept = append(kept, sortable{
				entry: domain.LibraryEntry{
					CompositeID: domain.CompositeID(src, raw.ID),
					Name:        raw.Name,
					IconRef:     raw.IconRef,
					IsShared:    isShared(src, raw, in.Identity),
					Installed:   installed,
					Source:      src,
				},
				key: folder.String(raw.Name),
			})
		}

		res.PerSource[src] = len(kept)
		switch src {
		case domain.SourceSteam:
			res.Counts.Steam = len(kept)
		case domain.SourceGOG:
			res.Counts.GOG = len(kept)
			res.Counts.GOGInstalled = installedCount
		case domain.SourceCustom:
			res.Counts.Custom = len(kept)
		}

		if visible, ok := in.Visible[src]; ok && !visible {
			continue
		}
		combined = append(combined, kept...)
	}

	slices.SortStableFunc(combined, compareSortable)

	res.Entries = make([]domain.LibraryEntry, len(combined))
	for i, s := range combined {
		s.entry.Index = i
		res.Entries[i] = s.entry
	}
	res.Total = len(res.Entries)

	e.logger.Debug("merged library",
		"total", res.Total, "query", in.Query,
		"steam", res.Counts.Steam, "gog", res.Counts.GOG, "custom", res.Counts.Custom)
	return res
}

// owned applies the ownership and shared filters for sources that track owners.
func (e *Engine) owned(src domain.Source, raw domain.RawEntry, in MergeInput) bool {
	if !src.HasOwnership() {
		return true
	}
	if owners := in.Identity.Owners(); len(owners) > 0 {
		if !slices.ContainsFunc(owners, raw.OwnedBy) {
			return false
		}
	}
	if in.Filter.Has(domain.FilterShared) {
		return true
	}
	self := in.Identity.AccountID
	return self == 0 || raw.OwnedBy(self)
}

func isShared(src domain.Source, raw domain.RawEntry, id domain.Identity) bool {
	return src.HasOwnership() && id.AccountID != 0 && !raw.OwnedBy(id.AccountID)
}

// matchQuery is a case-insensitive substring match, or a non-ranking fuzzy
// match when enabled. query must already be folded.
func matchQuery(folder cases.Caser, name, query string, fuzzyMode bool) bool {
	if query == "" {
		return true
	}
	if fuzzyMode {
		return fuzzy.MatchNormalizedFold(query, name)
	}
	return strings.Contains(folder.String(name), query)
}

// compareSortable orders installed first, then by folded name. CompositeID
// breaks remaining ties so the order is total.
func compareSortable(a, b sortable) int {
	if a.entry.Installed != b.entry.Installed {
		if a.entry.Installed {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(a.key, b.key); c != 0 {
		return c
	}
	return cmp.Compare(a.entry.CompositeID, b.entry.CompositeID)
}

// orderedSources returns the snapshot keys in a deterministic order.
func orderedSources(snaps map[domain.Source][]domain.RawEntry) []domain.Source {
	out := make([]domain.Source, 0, len(snaps))
	for src := range snaps {
		out = append(out, src)
	}
	slices.Sort(out)
	return out
}
