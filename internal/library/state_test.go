package library

import (
	"fmt"
	"sync"
	"testing"

	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/stretchr/testify/assert"
)

func entriesNamed(ns ...string) []domain.LibraryEntry {
	out := make([]domain.LibraryEntry, len(ns))
	for i, n := range ns {
		out[i] = domain.LibraryEntry{Index: i, Name: n, CompositeID: "GOG_" + n, Source: domain.SourceGOG}
	}
	return out
}

func TestStateStore_StalePassDropped(t *testing.T) {
	s := NewStateStore(Snapshot{})

	slow := s.BeginPass()
	fast := s.BeginPass()

	assert.True(t, s.ApplyPass(fast, PassResult{Entries: entriesNamed("new")}))
	assert.False(t, s.ApplyPass(slow, PassResult{Entries: entriesNamed("old")}))

	snap := s.Snapshot()
	assert.Equal(t, []string{"new"}, names(snap.Entries))
	assert.Equal(t, fast, snap.Generation)
	assert.False(t, snap.IsLoading)
}

func TestStateStore_LoadingUntilLatestApplied(t *testing.T) {
	s := NewStateStore(Snapshot{})
	gen := s.BeginPass()
	assert.True(t, s.Snapshot().IsLoading)
	assert.True(t, s.IsLatest(gen))

	s.ApplyPass(gen, PassResult{Page: PageState{PageSize: 2, TotalCount: 5, LastPage: 2}})
	snap := s.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.Equal(t, 2, snap.LastPage)
	assert.Equal(t, 1, snap.DisplayPage())
}

func TestStateStore_MergeCompatConcurrent(t *testing.T) {
	s := NewStateStore(Snapshot{})
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.MergeCompat(map[string]domain.CompatStatus{
				fmt.Sprintf("game %d", i): domain.CompatCompatible,
			})
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Len(t, snap.Compat, 20)
	assert.Equal(t, domain.CompatCompatible, snap.CompatFor("game 7"))
	assert.Equal(t, domain.CompatUnknown, snap.CompatFor("missing"))
}

func TestStateStore_SnapshotsAreImmutable(t *testing.T) {
	s := NewStateStore(Snapshot{})
	s.MergeCompat(map[string]domain.CompatStatus{"a": domain.CompatCompatible})
	before := s.Snapshot()

	s.MergeCompat(map[string]domain.CompatStatus{"b": domain.CompatNotCompatible})
	s.Update(func(snap *Snapshot) { snap.SearchQuery = "q" })

	assert.Len(t, before.Compat, 1)
	assert.Empty(t, before.SearchQuery)
	assert.Len(t, s.Snapshot().Compat, 2)
}

func TestStateStore_SubscribeCoalesces(t *testing.T) {
	s := NewStateStore(Snapshot{})
	ch, cancel := s.Subscribe()

	s.Update(func(snap *Snapshot) { snap.IsSearching = true })
	s.Update(func(snap *Snapshot) { snap.SearchQuery = "x" })

	_, ok := <-ch
	assert.True(t, ok)
	select {
	case <-ch:
		t.Fatal("signals should coalesce")
	default:
	}

	cancel()
	cancel()
	_, ok = <-ch
	assert.False(t, ok)

	s.Update(func(snap *Snapshot) { snap.SearchQuery = "y" })
}

func TestStateStore_ResetCompat(t *testing.T) {
	s := NewStateStore(Snapshot{})
	s.MergeCompat(map[string]domain.CompatStatus{"a": domain.CompatCompatible})
	s.ResetCompat()
	assert.Empty(t, s.Snapshot().Compat)
}
