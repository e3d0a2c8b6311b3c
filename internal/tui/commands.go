package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/infigrid/internal/pager"
)

// Command factories for async operations

// LoadPageCmd runs the loader for req off the update loop.
// The append itself happens when the returned PageLoadedMsg is handled.
func LoadPageCmd(loader pager.Loader, req pager.Request) tea.Cmd {
	return func() tea.Msg {
		items, err := loader.LoadBatch(req.Context(), req.Start, req.Count)
		return PageLoadedMsg{Request: req, Items: items, Err: err}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
