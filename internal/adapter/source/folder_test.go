package source

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestIsGameFolder(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "top", "Game.EXE"))
	touch(t, filepath.Join(root, "nested", "bin", "game.exe"))
	touch(t, filepath.Join(root, "deep", "a", "b", "game.exe"))
	touch(t, filepath.Join(root, "none", "readme.txt"))

	assert.True(t, IsGameFolder(filepath.Join(root, "top")))
	assert.True(t, IsGameFolder(filepath.Join(root, "nested")))
	assert.False(t, IsGameFolder(filepath.Join(root, "deep")))
	assert.False(t, IsGameFolder(filepath.Join(root, "none")))
	assert.False(t, IsGameFolder(filepath.Join(root, "missing")))
}

func TestFolderCollector_ScanRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Alpha", "alpha.exe"))
	touch(t, filepath.Join(root, "Beta", "bin", "beta.exe"))
	touch(t, filepath.Join(root, "Beta", "icon.png"))
	touch(t, filepath.Join(root, "Docs", "manual.pdf"))

	c := NewFolderCollector(root, nil, nil)
	entries := c.Scan()
	require.Len(t, entries, 2)

	byName := map[string]domain.RawEntry{}
	for _, e := range entries {
		byName[e.Name] = e
		assert.True(t, e.Installed)
		assert.Equal(t, domain.AppTypeGame, e.Type)
	}
	assert.Equal(t, filepath.Join(root, "Beta", "icon.png"), byName["Beta"].IconRef)
	assert.Empty(t, byName["Alpha"].IconRef)

	// Ids are stored and stable across scans.
	again := c.Scan()
	assert.Equal(t, entries, again)
	id, ok := readGameID(filepath.Join(root, "Alpha"))
	require.True(t, ok)
	assert.Equal(t, byName["Alpha"].ID, strconv.Itoa(id))
}

func TestFolderCollector_StoredIDWins(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Game")
	touch(t, filepath.Join(dir, "game.exe"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, metadataFile), []byte(`{"appId": 4242, "name": "kept"}`), 0o644))

	entries := NewFolderCollector(root, nil, nil).Scan()
	require.Len(t, entries, 1)
	assert.Equal(t, "4242", entries[0].ID)

	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept")
}

func TestFolderCollector_IDCollisionIncrements(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "A")
	b := filepath.Join(root, "B")
	touch(t, filepath.Join(a, "a.exe"))
	touch(t, filepath.Join(b, "b.exe"))

	absB, err := filepath.Abs(b)
	require.NoError(t, err)
	taken := pathID(absB)
	require.NoError(t, writeGameID(a, taken))

	entries := NewFolderCollector(root, nil, nil).Scan()
	require.Len(t, entries, 2)
	ids := map[string]string{}
	for _, e := range entries {
		ids[e.Name] = e.ID
	}
	assert.Equal(t, strconv.Itoa(taken), ids["A"])
	assert.Equal(t, strconv.Itoa(taken%maxCustomID+1), ids["B"])
}

func TestFolderCollector_AddFolder(t *testing.T) {
	manual := t.TempDir()
	touch(t, filepath.Join(manual, "Manual", "run.exe"))
	empty := t.TempDir()

	c := NewFolderCollector("", nil, nil)
	err := c.AddFolder(empty)
	assert.ErrorIs(t, err, domain.ErrNotGameFolder)

	require.NoError(t, c.AddFolder(filepath.Join(manual, "Manual")))
	require.NoError(t, c.AddFolder(filepath.Join(manual, "Manual")))
	assert.Len(t, c.Folders(), 1)

	entries := c.Scan()
	require.Len(t, entries, 1)
	assert.Equal(t, "Manual", entries[0].Name)
}

func TestFolderCollector_SubscribeRescans(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "One", "one.exe"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewFolderCollector(root, nil, nil)
	ch := c.Subscribe(ctx)
	assert.Len(t, receive(t, ch), 1)

	touch(t, filepath.Join(root, "Two", "two.exe"))
	require.NoError(t, c.Refresh(ctx))

	require.Eventually(t, func() bool {
		select {
		case entries := <-ch:
			return len(entries) == 2
		default:
			return false
		}
	}, 3*time.Second, 20*time.Millisecond)
}

func TestFindIcon_PrefersSteamGridLogo(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "game.exe"))
	touch(t, filepath.Join(dir, "icon.png"))
	touch(t, filepath.Join(dir, "steamgriddb_logo.webp"))

	assert.Equal(t, filepath.Join(dir, "steamgriddb_logo.webp"), findIcon(dir))
}
