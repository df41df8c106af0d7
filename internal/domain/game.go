package domain

// Source identifies the catalog a game entry came from.
type Source string

const (
	SourceSteam  Source = "STEAM"
	SourceGOG    Source = "GOG"
	SourceCustom Source = "CUSTOM"
)

// Sources lists every known source in display order.
var Sources = []Source{SourceSteam, SourceGOG, SourceCustom}

// HasOwnership reports whether entries of this source carry owner account ids
// that must be checked against the current identity.
func (s Source) HasOwnership() bool {
	return s == SourceSteam
}

// AppType is the catalog type tag of an entry.
type AppType string

const (
	AppTypeGame        AppType = "GAME"
	AppTypeApplication AppType = "APPLICATION"
	AppTypeTool        AppType = "TOOL"
	AppTypeDemo        AppType = "DEMO"
)

// RawEntry is a source-specific record as produced by a Collector.
type RawEntry struct {
	ID         string  // Unique within the source
	Name       string  // Display name
	Installed  bool    // Provider-reported install state
	InstallDir string  // Directory name used by the install lookup (may be empty)
	OwnerIDs   []int   // Owning account ids (sources with ownership only)
	IconRef    string  // Icon hash, URL or local path
	Type       AppType // Empty is treated as GAME
}

// OwnedBy reports whether the given account id is one of the entry's owners.
func (e RawEntry) OwnedBy(accountID int) bool {
	for _, id := range e.OwnerIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// AppType returns the entry type, defaulting to GAME.
func (e RawEntry) AppType() AppType {
	if e.Type == "" {
		return AppTypeGame
	}
	return e.Type
}

// LibraryEntry is the unified, display-ready record.
// Index is positional and reassigned on every pass; CompositeID is the stable identity.
type LibraryEntry struct {
	Index       int
	CompositeID string
	Name        string
	IconRef     string
	IsShared    bool
	Installed   bool
	Source      Source
}

// CompositeID builds the globally unique "<SOURCE>_<id>" key.
func CompositeID(src Source, id string) string {
	return string(src) + "_" + id
}

// Identity describes who is browsing the library.
type Identity struct {
	AccountID int   // 0 when unknown
	FamilyIDs []int // Co-owners whose games are visible as shared
}

// Owners returns the set of accounts whose entries may be listed.
func (i Identity) Owners() []int {
	if len(i.FamilyIDs) > 0 {
		return i.FamilyIDs
	}
	if i.AccountID != 0 {
		return []int{i.AccountID}
	}
	return nil
}

// SourceCounts holds per-source result counts used as skeleton sizing hints.
type SourceCounts struct {
	Steam        int
	GOG          int
	GOGInstalled int
	Custom       int
}
