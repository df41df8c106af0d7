package library

import (
	"fmt"
	"testing"

	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_SortsInstalledFirstThenName(t *testing.T) {
	e := NewEngine(nil)
	res := e.Merge(MergeInput{
		Filter: domain.DefaultFilter,
		Snapshots: map[domain.Source][]domain.RawEntry{
			domain.SourceSteam: {
				game("1", "c"),
				{ID: "2", Name: "B", Installed: true},
			},
			domain.SourceGOG: {game("3", "a")},
		},
	})

	assert.Equal(t, []string{"B", "a", "c"}, names(res.Entries))
	assert.Equal(t, 3, res.Total)
	for i, entry := range res.Entries {
		assert.Equal(t, i, entry.Index)
	}
}

func TestMerge_CaseInsensitiveOrder(t *testing.T) {
	e := NewEngine(nil)
	res := e.Merge(MergeInput{
		Filter: domain.DefaultFilter,
		Snapshots: map[domain.Source][]domain.RawEntry{
			domain.SourceGOG: {game("1", "b"), game("2", "A"), game("3", "C")},
		},
	})
	assert.Equal(t, []string{"A", "b", "C"}, names(res.Entries))
}

func TestMerge_TiesBrokenByCompositeID(t *testing.T) {
	e := NewEngine(nil)
	in := MergeInput{
		Filter: domain.DefaultFilter,
		Snapshots: map[domain.Source][]domain.RawEntry{
			domain.SourceSteam: {game("9", "Same")},
			domain.SourceGOG:   {game("1", "Same")},
		},
	}
	res := e.Merge(in)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "GOG_1", res.Entries[0].CompositeID)
	assert.Equal(t, "STEAM_9", res.Entries[1].CompositeID)
	assert.Equal(t, res.Entries, e.Merge(in).Entries)
}

func TestMerge_CompositeIDsUnique(t *testing.T) {
	e := NewEngine(nil)
	res := e.Merge(MergeInput{
		Filter: domain.DefaultFilter,
		Snapshots: map[domain.Source][]domain.RawEntry{
			domain.SourceSteam:  {game("1", "x")},
			domain.SourceGOG:    {game("1", "x")},
			domain.SourceCustom: {{ID: "1", Name: "x", Installed: true}},
		},
	})
	seen := map[string]bool{}
	for _, entry := range res.Entries {
		assert.False(t, seen[entry.CompositeID], entry.CompositeID)
		seen[entry.CompositeID] = true
	}
	assert.Len(t, seen, 3)
}

func TestMerge_EmptyInput(t *testing.T) {
	res := NewEngine(nil).Merge(MergeInput{})
	assert.Empty(t, res.Entries)
	assert.Zero(t, res.Total)
}

func TestMerge_EmptyNameSortsFirst(t *testing.T) {
	res := NewEngine(nil).Merge(MergeInput{
		Filter: domain.DefaultFilter,
		Snapshots: map[domain.Source][]domain.RawEntry{
			domain.SourceGOG: {game("1", "a"), game("2", "")},
		},
	})
	assert.Equal(t, []string{"", "a"}, names(res.Entries))
}

func TestMerge_Search(t *testing.T) {
	snaps := map[domain.Source][]domain.RawEntry{
		domain.SourceGOG: {game("1", "Half-Life"), game("2", "Portal"), game("3", "HALF LIFE 2")},
	}
	e := NewEngine(nil)

	res := e.Merge(MergeInput{Filter: domain.DefaultFilter, Snapshots: snaps, Query: "  half "})
	assert.Equal(t, []string{"HALF LIFE 2", "Half-Life"}, names(res.Entries))

	res = e.Merge(MergeInput{Filter: domain.DefaultFilter, Snapshots: snaps, Query: "hl2"})
	assert.Empty(t, res.Entries)

	res = e.Merge(MergeInput{Filter: domain.DefaultFilter, Snapshots: snaps, Query: "hl2", Fuzzy: true})
	assert.Equal(t, []string{"HALF LIFE 2"}, names(res.Entries))
}

func TestMerge_Ownership(t *testing.T) {
	snaps := map[domain.Source][]domain.RawEntry{
		domain.SourceSteam: {
			{ID: "1", Name: "mine", OwnerIDs: []int{10}},
			{ID: "2", Name: "family", OwnerIDs: []int{20}},
			{ID: "3", Name: "stranger", OwnerIDs: []int{99}},
		},
	}
	id := domain.Identity{AccountID: 10, FamilyIDs: []int{10, 20}}
	e := NewEngine(nil)

	res := e.Merge(MergeInput{Filter: domain.DefaultFilter, Snapshots: snaps, Identity: id})
	assert.Equal(t, []string{"family", "mine"}, names(res.Entries))
	assert.True(t, res.Entries[0].IsShared)
	assert.False(t, res.Entries[1].IsShared)

	res = e.Merge(MergeInput{Filter: domain.FilterSet(0).With(domain.FilterGame), Snapshots: snaps, Identity: id})
	assert.Equal(t, []string{"mine"}, names(res.Entries))
}

func TestMerge_OwnershipIgnoredWithoutIdentity(t *testing.T) {
	res := NewEngine(nil).Merge(MergeInput{
		Filter: domain.FilterSet(0).With(domain.FilterGame),
		Snapshots: map[domain.Source][]domain.RawEntry{
			domain.SourceSteam: {{ID: "1", Name: "any", OwnerIDs: []int{5}}},
		},
	})
	assert.Equal(t, []string{"any"}, names(res.Entries))
	assert.False(t, res.Entries[0].IsShared)
}

func TestMerge_TypeFilter(t *testing.T) {
	snaps := map[domain.Source][]domain.RawEntry{
		domain.SourceSteam: {
			{ID: "1", Name: "game"},
			{ID: "2", Name: "tool", Type: domain.AppTypeTool},
			{ID: "3", Name: "demo", Type: domain.AppTypeDemo},
		},
	}
	e := NewEngine(nil)

	res := e.Merge(MergeInput{Filter: domain.DefaultFilter, Snapshots: snaps})
	assert.Equal(t, []string{"game"}, names(res.Entries))

	res = e.Merge(MergeInput{Filter: domain.FilterSet(0).With(domain.FilterTool).With(domain.FilterDemo), Snapshots: snaps})
	assert.Equal(t, []string{"demo", "tool"}, names(res.Entries))
}

func TestMerge_InstalledFilterUsesLookup(t *testing.T) {
	snaps := map[domain.Source][]domain.RawEntry{
		domain.SourceSteam: {
			{ID: "1", Name: "on disk", InstallDir: "OnDisk"},
			{ID: "2", Name: "missing", InstallDir: "Missing"},
			{ID: "3", Name: "flagged", Installed: true},
		},
	}
	lookup := func(dir string) bool { return dir == "OnDisk" }

	res := NewEngine(nil).Merge(MergeInput{
		Filter:    domain.DefaultFilter.With(domain.FilterInstalled),
		Snapshots: snaps,
		Installed: lookup,
	})
	assert.Equal(t, []string{"flagged", "on disk"}, names(res.Entries))
	for _, entry := range res.Entries {
		assert.True(t, entry.Installed)
	}
}

func TestMerge_VisibilityKeepsCounts(t *testing.T) {
	res := NewEngine(nil).Merge(MergeInput{
		Filter: domain.DefaultFilter,
		Snapshots: map[domain.Source][]domain.RawEntry{
			domain.SourceSteam: {game("1", "s")},
			domain.SourceGOG:   {game("2", "g"), {ID: "3", Name: "h", Installed: true}},
		},
		Visible: map[domain.Source]bool{domain.SourceGOG: false},
	})
	assert.Equal(t, []string{"s"}, names(res.Entries))
	assert.Equal(t, domain.SourceCounts{Steam: 1, GOG: 2, GOGInstalled: 1}, res.Counts)
}

func TestMerge_TotalEqualsSumOfVisibleSources(t *testing.T) {
	snaps := map[domain.Source][]domain.RawEntry{}
	for i := range 40 {
		src := domain.Sources[i%len(domain.Sources)]
		snaps[src] = append(snaps[src], domain.RawEntry{
			ID:        fmt.Sprint(i),
			Name:      fmt.Sprintf("game %02d", i),
			Installed: i%3 == 0,
			Type:      []domain.AppType{domain.AppTypeGame, domain.AppTypeTool}[i%2],
		})
	}
	e := NewEngine(nil)

	for _, hidden := range append([]domain.Source{""}, domain.Sources...) {
		visible := map[domain.Source]bool{}
		if hidden != "" {
			visible[hidden] = false
		}
		res := e.Merge(MergeInput{Filter: domain.DefaultFilter, Snapshots: snaps, Visible: visible, Query: "game 1"})

		want := 0
		for src, n := range res.PerSource {
			if src != hidden {
				want += n
			}
		}
		assert.Equal(t, want, res.Total, "hidden=%q", hidden)
		assert.Len(t, res.Entries, res.Total)
	}
}
