package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/infigrid/internal/tui/components"
)

// updateLayout recalculates component sizes from the window size.
//
// Vertical layout: reset button, grid, status bar, help.
func (m *Model) updateLayout() {
	m.Button.SetWidth(m.Width)
	m.Button.SetTop(0)
	m.Help.Width = m.Width

	footer := StatusBarHeight + lipgloss.Height(m.Help.View(m.Keys))
	gridHeight := m.Height - components.ButtonHeight - footer
	if gridHeight < 0 {
		gridHeight = 0
	}
	m.Grid.SetSize(m.Width, gridHeight)
}
