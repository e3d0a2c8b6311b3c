package tui

import "github.com/mmcdole/infigrid/internal/pager"

// Message types for the TUI

// PageLoadedMsg carries the result of a page load back to the update loop
type PageLoadedMsg struct {
	Request pager.Request
	Items   []int
	Err     error
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
