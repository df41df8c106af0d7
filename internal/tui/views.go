package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/mmcdole/gamelib/internal/tui/styles"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var filterChips = []struct {
	flag  domain.FilterFlag
	label string
}{
	{domain.FilterGame, "games"},
	{domain.FilterApplication, "apps"},
	{domain.FilterTool, "tools"},
	{domain.FilterDemo, "demos"},
	{domain.FilterShared, "shared"},
	{domain.FilterInstalled, "installed"},
}

// View renders the whole screen
func (m Model) View() string {
	if m.ShowHelp {
		return m.renderHelp()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderList(),
		m.renderFooter(),
	)
}

func (m Model) width() int {
	if m.Width <= 0 {
		return 80
	}
	return m.Width
}

func (m Model) renderHeader() string {
	var top string
	if m.Snap.IsSearching || m.Search.Focused() {
		top = m.Search.View()
	} else {
		top = styles.TitleStyle.Render("Library") + "  " + m.renderSources()
	}

	var chips []string
	for _, c := range filterChips {
		style := styles.ChipOffStyle
		if m.Snap.Filter.Has(c.flag) {
			style = styles.ChipOnStyle
		}
		chips = append(chips, style.Render(c.label))
	}
	return styles.HeaderStyle.Width(m.width()).Render(top + "\n" + strings.Join(chips, " "))
}

func (m Model) renderSources() string {
	parts := make([]string, 0, len(domain.Sources))
	counts := map[domain.Source]int{
		domain.SourceSteam:  m.Snap.Counts.Steam,
		domain.SourceGOG:    m.Snap.Counts.GOG,
		domain.SourceCustom: m.Snap.Counts.Custom,
	}
	for i, src := range domain.Sources {
		label := fmt.Sprintf("%d:%s %d", i+1, strings.ToLower(string(src)), counts[src])
		if visible, ok := m.Snap.Visible[src]; ok && !visible {
			parts = append(parts, styles.DimStyle.Strikethrough(true).Render(label))
			continue
		}
		parts = append(parts, styles.SubtitleStyle.Render(label))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderList() string {
	h := m.listHeight()
	rows := make([]string, 0, h)

	if len(m.Snap.Entries) == 0 {
		if m.Snap.IsLoading {
			for range min(max(m.Snap.SkeletonCount, 1), h) {
				rows = append(rows, styles.DimStyle.Render("  ░░░░░░░░░░░░░░░░"))
			}
		} else {
			rows = append(rows, styles.DimStyle.Render("  no games match"))
		}
	}

	end := min(m.Offset+h, len(m.Snap.Entries))
	for i := m.Offset; i < end; i++ {
		rows = append(rows, m.renderRow(m.Snap.Entries[i], i == m.Cursor))
	}
	for len(rows) < h {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(e domain.LibraryEntry, selected bool) string {
	status := m.Snap.CompatFor(e.Name)
	badgeColor := styles.CompatColor(status)
	dim := styles.DimGray

	installed := " "
	if e.Installed {
		installed = styles.InstalledChar
	}
	shared := " "
	if e.IsShared {
		shared = styles.SharedChar
	}
	tag := fmt.Sprintf("%-6s", strings.ToLower(string(e.Source)))
	nameWidth := max(m.width()-lipgloss.Width(tag)-10, 8)

	return styles.RenderListRow([]styles.RowPart{
		{Text: styles.CompatChar(status) + " ", Foreground: &badgeColor},
		{Text: styles.Truncate(e.Name, nameWidth)},
		{Text: strings.Repeat(" ", max(nameWidth-lipgloss.Width(styles.Truncate(e.Name, nameWidth)), 0)+1)},
		{Text: installed + shared + " ", Foreground: &dim},
		{Text: tag, Foreground: &dim},
	}, selected, m.width())
}

func (m Model) renderFooter() string {
	var b strings.Builder
	fmt.Fprintf(&b, "page %d/%d  %d of %d",
		m.Snap.DisplayPage(), m.Snap.LastPage+1, len(m.Snap.Entries), m.Snap.TotalCount)

	if m.Snap.IsLoading || m.Snap.IsRefreshing {
		b.WriteString("  " + styles.AccentStyle.Render(spinnerFrames[m.frame%len(spinnerFrames)]))
	}
	if m.Status != "" {
		b.WriteString("  " + m.Status)
	}
	b.WriteString("  " + styles.HelpKeyStyle.Render("?") + styles.HelpDescStyle.Render(" help"))
	return styles.FooterStyle.Render(b.String())
}

func (m Model) renderHelp() string {
	var lines []string
	lines = append(lines, styles.TitleStyle.Render("Keys"), "")
	for _, b := range m.keys.HelpBindings() {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("  %s  %s",
			styles.HelpKeyStyle.Render(fmt.Sprintf("%-8s", h.Key)),
			styles.HelpDescStyle.Render(h.Desc)))
	}
	lines = append(lines, "", styles.DimStyle.Render("  "+styles.GPUCompatibleChar+" runs on this GPU  "+
		styles.CompatibleChar+" runs elsewhere  "+styles.NotCompatibleChar+" not working"))
	return strings.Join(lines, "\n")
}
