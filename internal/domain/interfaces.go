package domain

import "context"

// Collector produces full snapshots of one catalog source.
// Subscribe delivers at least one snapshot (possibly empty) and then a new
// snapshot whenever the backing data changes. The channel is closed when ctx
// is done. Provider failures are logged by the collector and never surface
// on the channel: the previous snapshot simply stays current.
type Collector interface {
	Source() Source
	Subscribe(ctx context.Context) <-chan []RawEntry
}

// CompatClient is the remote batch compatibility service.
// A nil map with a non-nil error signals a failed batch.
type CompatClient interface {
	FetchCompatibility(ctx context.Context, names []string, identity string) (map[string]CompatReport, error)
}

// InstalledLookup is a membership test over install directory names.
type InstalledLookup func(name string) bool

// InstallIndex builds a fresh InstalledLookup for one filter pass.
type InstallIndex interface {
	Lookup() InstalledLookup
}

// Preferences is the injected configuration store read by the library
// engine and pagination. Implementations must be safe for concurrent use.
type Preferences interface {
	ItemsPerPage() int
	SourceVisible(src Source) bool
	SetSourceVisible(src Source, visible bool)
	Filter() FilterSet
	SetFilter(f FilterSet)
	FuzzySearch() bool
	Identity() Identity
	Counts() SourceCounts
	SaveCounts(c SourceCounts)
}
