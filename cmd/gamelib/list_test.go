package main

import (
	"bytes"
	"testing"

	"github.com/mmcdole/gamelib/internal/adapter"
	"github.com/mmcdole/gamelib/internal/compat"
	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/mmcdole/gamelib/internal/library"
	"github.com/stretchr/testify/assert"
)

func TestPrintEntries(t *testing.T) {
	snap := library.Snapshot{
		Entries: []domain.LibraryEntry{
			{Name: "Portal", Source: domain.SourceSteam, Installed: true},
			{Name: "Hades", Source: domain.SourceGOG, IsShared: true},
		},
		TotalCount: 2,
		Compat:     map[string]domain.CompatStatus{"Portal": domain.CompatGPUCompatible},
	}

	t.Run("without compat", func(t *testing.T) {
		var buf bytes.Buffer
		printEntries(&buf, snap, false)
		out := buf.String()
		assert.Contains(t, out, "steam")
		assert.Contains(t, out, "Portal")
		assert.Contains(t, out, "installed")
		assert.Contains(t, out, "shared")
		assert.NotContains(t, out, "GPU_COMPATIBLE")
		assert.Contains(t, out, "2 of 2 games (page 1/1)")
	})

	t.Run("with compat", func(t *testing.T) {
		var buf bytes.Buffer
		printEntries(&buf, snap, true)
		out := buf.String()
		assert.Contains(t, out, "GPU_COMPATIBLE")
		assert.Contains(t, out, "UNKNOWN")
	})
}

func TestCompatIdentity(t *testing.T) {
	cfg := adapter.DefaultConfig()
	cfg.Compat.Identity = "  "
	assert.Equal(t, compat.UnknownIdentity, compatIdentity(cfg))

	cfg.Compat.Identity = "Adreno 740"
	assert.Equal(t, "Adreno 740", compatIdentity(cfg))
}
