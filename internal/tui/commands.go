package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gamelib/internal/domain"
)

// listenCmd waits for the next state change signal. A closed channel ends
// the listen loop.
func listenCmd(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return nil
		}
		return StateChangedMsg{}
	}
}

// RefreshCmd runs a manual refresh off the UI goroutine
func RefreshCmd(lib Library) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		return RefreshDoneMsg{Err: lib.Refresh(ctx)}
	}
}

// ToggleSourceCmd flips a source off the UI goroutine. The result arrives
// as a state change.
func ToggleSourceCmd(lib Library, src domain.Source) tea.Cmd {
	return func() tea.Msg {
		lib.ToggleSource(src)
		return nil
	}
}

// ToggleFilterCmd flips a filter flag off the UI goroutine.
func ToggleFilterCmd(lib Library, flag domain.FilterFlag) tea.Cmd {
	return func() tea.Msg {
		lib.ToggleFilter(flag)
		return nil
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
