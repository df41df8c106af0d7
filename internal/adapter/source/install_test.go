package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallDir_Lookup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Portal"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	lookup := NewInstallDir(dir, nil).Lookup()
	assert.True(t, lookup("Portal"))
	assert.False(t, lookup("notes.txt"))
	assert.False(t, lookup("Missing"))

	assert.False(t, NewInstallDir("", nil).Lookup()("Portal"))
	assert.False(t, NewInstallDir(filepath.Join(dir, "nope"), nil).Lookup()("Portal"))
}
