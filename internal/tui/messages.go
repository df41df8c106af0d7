package tui

// Message types for the TUI

// StateChangedMsg signals that the library state store published a change
type StateChangedMsg struct{}

// RefreshDoneMsg signals that a manual refresh finished
type RefreshDoneMsg struct {
	Err error
}

// TickMsg drives the loading spinner
type TickMsg struct{}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}
