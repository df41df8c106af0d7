package source

import (
	"log/slog"
	"os"

	"github.com/mmcdole/gamelib/internal/domain"
)

// InstallDir answers "is this game's directory present" from one listing of
// the download directory.
type InstallDir struct {
	path   string
	logger *slog.Logger
}

// NewInstallDir creates a lookup over path. An empty path reports nothing installed.
func NewInstallDir(path string, logger *slog.Logger) *InstallDir {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstallDir{path: path, logger: logger}
}

// Lookup lists the directory once and returns a membership test.
func (d *InstallDir) Lookup() domain.InstalledLookup {
	if d.path == "" {
		return func(string) bool { return false }
	}
	entries, err := os.ReadDir(d.path)
	if err != nil {
		d.logger.Debug("install directory unreadable", "path", d.path, "error", err)
		return func(string) bool { return false }
	}

	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			present[e.Name()] = true
		}
	}
	return func(name string) bool { return present[name] }
}
