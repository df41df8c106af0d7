package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/tidwall/gjson"
)

const (
	metadataFile  = ".gamenative"
	settleDelay   = 250 * time.Millisecond
	maxCustomID   = 1<<31 - 1
	steamGridLogo = "steamgriddb_logo"
)

// FolderCollector scans local folders for games that are not tied to a
// storefront. Every direct subfolder of root is a candidate, as is every
// manually added folder.
type FolderCollector struct {
	root   string
	logger *slog.Logger

	mu      sync.Mutex
	folders []string

	rescan chan struct{}
}

// NewFolderCollector creates a collector. root may be empty.
func NewFolderCollector(root string, folders []string, logger *slog.Logger) *FolderCollector {
	if logger == nil {
		logger = slog.Default()
	}
	c := &FolderCollector{root: root, logger: logger, rescan: make(chan struct{}, 1)}
	for _, f := range folders {
		if abs, err := filepath.Abs(f); err == nil && !slices.Contains(c.folders, abs) {
			c.folders = append(c.folders, abs)
		}
	}
	return c
}

func (c *FolderCollector) Source() domain.Source { return domain.SourceCustom }

// Folders returns the manually added folders.
func (c *FolderCollector) Folders() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.folders)
}

// AddFolder validates path as a game folder, records it and triggers a rescan.
func (c *FolderCollector) AddFolder(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !IsGameFolder(abs) {
		return fmt.Errorf("%w: %s", domain.ErrNotGameFolder, path)
	}

	c.mu.Lock()
	if !slices.Contains(c.folders, abs) {
		c.folders = append(c.folders, abs)
	}
	c.mu.Unlock()

	c.signal()
	return nil
}

// Refresh triggers a rescan.
func (c *FolderCollector) Refresh(ctx context.Context) error {
	c.signal()
	return nil
}

func (c *FolderCollector) signal() {
	select {
	case c.rescan <- struct{}{}:
	default:
	}
}

// Subscribe scans immediately, then rescans when the watched folders change
// or a rescan is requested.
func (c *FolderCollector) Subscribe(ctx context.Context) <-chan []domain.RawEntry {
	out := make(chan []domain.RawEntry)
	go c.run(ctx, out)
	return out
}

func (c *FolderCollector) run(ctx context.Context, out chan<- []domain.RawEntry) {
	defer close(out)

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.logger.Warn("folder watch unavailable, relying on refresh", "error", err)
	} else {
		defer watcher.Close()
		events, errs = watcher.Events, watcher.Errors
	}

	var (
		last    []domain.RawEntry
		emitted bool
		settle  <-chan time.Time
	)
	emit := func() bool {
		c.watch(watcher)
		entries := c.Scan()
		if emitted && reflect.DeepEqual(entries, last) {
			return true
		}
		select {
		case out <- entries:
			last, emitted = entries, true
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
				settle = time.After(settleDelay)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			c.logger.Warn("folder watch error", "error", err)
		case <-settle:
			settle = nil
			if !emit() {
				return
			}
		case <-c.rescan:
			if !emit() {
				return
			}
		}
	}
}

// watch registers the root, its subfolders and the manual folders.
func (c *FolderCollector) watch(w *fsnotify.Watcher) {
	if w == nil {
		return
	}
	var dirs []string
	if c.root != "" {
		dirs = append(dirs, c.root)
	}
	dirs = append(dirs, c.candidates()...)
	for _, d := range dirs {
		if err := w.Add(d); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("cannot watch folder", "path", d, "error", err)
		}
	}
}

// candidates lists manual folders then root subfolders, absolute and deduplicated.
func (c *FolderCollector) candidates() []string {
	out := c.Folders()
	if c.root == "" {
		return out
	}
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("custom root unreadable", "path", c.root, "error", err)
		}
		return out
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(c.root, e.Name()))
		if err == nil && !slices.Contains(out, abs) {
			out = append(out, abs)
		}
	}
	return out
}

// Scan returns one entry per game folder. Ids stored in a folder's metadata
// file win; the rest are derived from the path and stored back.
func (c *FolderCollector) Scan() []domain.RawEntry {
	type found struct {
		dir string
		id  int
	}
	var games []found
	used := make(map[int]bool)

	for _, dir := range c.candidates() {
		if !IsGameFolder(dir) {
			continue
		}
		id, ok := readGameID(dir)
		if ok && used[id] {
			c.logger.Warn("duplicate custom game id, reassigning", "path", dir, "id", id)
			ok = false
		}
		if ok {
			used[id] = true
		} else {
			id = 0
		}
		games = append(games, found{dir: dir, id: id})
	}

	for i := range games {
		if games[i].id != 0 {
			continue
		}
		id := pathID(games[i].dir)
		for used[id] {
			id = id%maxCustomID + 1
		}
		used[id] = true
		games[i].id = id
		if err := writeGameID(games[i].dir, id); err != nil {
			c.logger.Debug("cannot store custom game id", "path", games[i].dir, "error", err)
		}
	}

	entries := make([]domain.RawEntry, 0, len(games))
	for _, g := range games {
		entries = append(entries, domain.RawEntry{
			ID:        strconv.Itoa(g.id),
			Name:      filepath.Base(g.dir),
			Installed: true,
			IconRef:   findIcon(g.dir),
			Type:      domain.AppTypeGame,
		})
	}
	return entries
}

// IsGameFolder reports whether dir holds an .exe at its root or in a direct subfolder.
func IsGameFolder(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
			continue
		}
		if isExe(e.Name()) {
			return true
		}
	}
	for _, sd := range subdirs {
		inner, err := os.ReadDir(filepath.Join(dir, sd))
		if err != nil {
			continue
		}
		for _, e := range inner {
			if !e.IsDir() && isExe(e.Name()) {
				return true
			}
		}
	}
	return false
}

func isExe(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".exe")
}

// pathID hashes an absolute path into a positive id.
func pathID(dir string) int {
	h := fnv.New32a()
	h.Write([]byte(dir))
	id := int(h.Sum32() & maxCustomID)
	if id == 0 {
		return 1
	}
	return id
}

func readGameID(dir string) (int, bool) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil || !gjson.ValidBytes(data) {
		return 0, false
	}
	v := gjson.GetBytes(data, "appId")
	if !v.Exists() || v.Int() <= 0 {
		return 0, false
	}
	return int(v.Int()), true
}

// writeGameID stores id in the metadata file, keeping any other fields.
func writeGameID(dir string, id int) error {
	path := filepath.Join(dir, metadataFile)
	meta := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, &meta)
	}
	meta["appId"] = id
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// findIcon prefers a SteamGridDB logo, then an image named like an icon,
// then the only image present.
func findIcon(dir string) string {
	var images []string
	collect := func(d string) {
		entries, err := os.ReadDir(d)
		if err != nil {
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			name := strings.ToLower(e.Name())
			if d == dir && strings.HasPrefix(name, steamGridLogo) && (ext == ".png" || ext == ".jpg" || ext == ".webp") {
				images = append([]string{filepath.Join(d, e.Name())}, images...)
				continue
			}
			if ext == ".ico" || ext == ".png" {
				images = append(images, filepath.Join(d, e.Name()))
			}
		}
	}

	collect(dir)
	if len(images) > 0 && strings.HasPrefix(strings.ToLower(filepath.Base(images[0])), steamGridLogo) {
		return images[0]
	}
	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				collect(filepath.Join(dir, e.Name()))
			}
		}
	}

	for _, img := range images {
		if strings.Contains(strings.ToLower(filepath.Base(img)), "icon") {
			return img
		}
	}
	if len(images) == 1 {
		return images[0]
	}
	return ""
}
