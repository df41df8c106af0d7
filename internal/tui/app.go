package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/mmcdole/gamelib/internal/library"
)

const (
	headerHeight  = 3
	footerHeight  = 2
	defaultHeight = 24
	tickInterval  = 100 * time.Millisecond
)

// Library is the subset of library.Service the UI drives.
type Library interface {
	Snapshot() library.Snapshot
	Updates() (<-chan struct{}, func())
	SetQuery(query string)
	SetSearching(on bool)
	ToggleFilter(flag domain.FilterFlag)
	ToggleSource(src domain.Source)
	PageChange(delta int)
	OnViewport(lastVisibleIndex int)
	Refresh(ctx context.Context) error
}

// Model is the application model
type Model struct {
	lib     Library
	updates <-chan struct{}
	stop    func()
	keys    KeyMap

	Search   textinput.Model
	Snap     library.Snapshot
	Cursor   int
	Offset   int
	Width    int
	Height   int
	ShowHelp bool
	Status   string
	frame    int
}

// NewModel creates a new application model subscribed to lib
func NewModel(lib Library) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search library"
	ti.CharLimit = 128

	updates, stop := lib.Updates()
	return Model{
		lib:     lib,
		updates: updates,
		stop:    stop,
		keys:    DefaultKeyMap(),
		Search:  ti,
		Snap:    lib.Snapshot(),
	}
}

// Close cancels the state subscription
func (m Model) Close() {
	if m.stop != nil {
		m.stop()
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(listenCmd(m.updates), TickCmd(tickInterval))
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Search.Width = max(msg.Width-6, 10)
		m.clampCursor()
		return m, nil

	case StateChangedMsg:
		m.Snap = m.lib.Snapshot()
		m.clampCursor()
		return m, listenCmd(m.updates)

	case RefreshDoneMsg:
		if msg.Err != nil {
			m.Status = "refresh failed: " + msg.Err.Error()
		} else {
			m.Status = "library refreshed"
		}
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.Status = ""
		return m, nil

	case TickMsg:
		m.frame++
		return m, TickCmd(tickInterval)

	case tea.KeyMsg:
		if m.Search.Focused() {
			return m.handleSearchKey(msg)
		}
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.Search.Blur()
		m.Search.SetValue("")
		m.lib.SetSearching(false)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.Search.Blur()
		return m, nil
	}

	before := m.Search.Value()
	var cmd tea.Cmd
	m.Search, cmd = m.Search.Update(msg)
	if v := m.Search.Value(); v != before {
		m.lib.SetQuery(v)
	}
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.ShowHelp = !m.ShowHelp
	case key.Matches(msg, m.keys.Escape):
		if m.ShowHelp {
			m.ShowHelp = false
		} else if m.Snap.IsSearching {
			m.Search.SetValue("")
			m.lib.SetSearching(false)
		}
	case key.Matches(msg, m.keys.Search):
		m.lib.SetSearching(true)
		return m, m.Search.Focus()
	case key.Matches(msg, m.keys.Refresh):
		if m.Snap.IsRefreshing {
			return m, nil
		}
		m.Status = "refreshing..."
		return m, RefreshCmd(m.lib)

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
	case key.Matches(msg, m.keys.Home):
		m.moveCursor(-len(m.Snap.Entries))
	case key.Matches(msg, m.keys.End):
		m.moveCursor(len(m.Snap.Entries))
	case key.Matches(msg, m.keys.NextPage):
		m.lib.PageChange(1)

	case key.Matches(msg, m.keys.ToggleSteam):
		return m, ToggleSourceCmd(m.lib, domain.SourceSteam)
	case key.Matches(msg, m.keys.ToggleGOG):
		return m, ToggleSourceCmd(m.lib, domain.SourceGOG)
	case key.Matches(msg, m.keys.ToggleCustom):
		return m, ToggleSourceCmd(m.lib, domain.SourceCustom)

	case key.Matches(msg, m.keys.ToggleInstalled):
		return m, m.toggleFilter(domain.FilterInstalled)
	case key.Matches(msg, m.keys.ToggleShared):
		return m, m.toggleFilter(domain.FilterShared)
	case key.Matches(msg, m.keys.ToggleGames):
		return m, m.toggleFilter(domain.FilterGame)
	case key.Matches(msg, m.keys.ToggleApplications):
		return m, m.toggleFilter(domain.FilterApplication)
	case key.Matches(msg, m.keys.ToggleTools):
		return m, m.toggleFilter(domain.FilterTool)
	case key.Matches(msg, m.keys.ToggleDemos):
		return m, m.toggleFilter(domain.FilterDemo)
	}
	return m, nil
}

// toggleFilter resets the cursor since a filter change lands on page zero.
func (m *Model) toggleFilter(flag domain.FilterFlag) tea.Cmd {
	m.Cursor, m.Offset = 0, 0
	return ToggleFilterCmd(m.lib, flag)
}

// moveCursor moves the selection, scrolls the window and reports the last
// visible row so the library can load the next page.
func (m *Model) moveCursor(delta int) {
	n := len(m.Snap.Entries)
	if n == 0 {
		return
	}
	m.Cursor = max(0, min(m.Cursor+delta, n-1))
	m.scrollToCursor()
	m.lib.OnViewport(m.lastVisible())
}

func (m *Model) clampCursor() {
	n := len(m.Snap.Entries)
	if n == 0 {
		m.Cursor, m.Offset = 0, 0
		return
	}
	m.Cursor = min(m.Cursor, n-1)
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	h := m.listHeight()
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+h {
		m.Offset = m.Cursor - h + 1
	}
	m.Offset = max(0, min(m.Offset, max(len(m.Snap.Entries)-h, 0)))
}

func (m Model) lastVisible() int {
	return min(m.Offset+m.listHeight(), len(m.Snap.Entries)) - 1
}

func (m Model) listHeight() int {
	h := m.Height
	if h <= 0 {
		h = defaultHeight
	}
	return max(h-headerHeight-footerHeight, 1)
}
