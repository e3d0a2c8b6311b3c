package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/infigrid/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Starting..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.Button.View(),
		m.Grid.View(),
		m.renderStatusBar(),
		m.Help.View(m.Keys),
	)
}

// renderStatusBar renders item count, load state and any status message
func (m Model) renderStatusBar() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d items", m.Pager.Len()))

	if m.Pager.Loading() {
		parts = append(parts, m.Spinner.View()+" loading")
	}

	if v, ok := m.Grid.SelectedValue(); ok {
		parts = append(parts, fmt.Sprintf("#%d", v))
	}

	line := styles.StatusBarStyle.Render(strings.Join(parts, " · "))

	if m.StatusMsg != "" {
		style := styles.SuccessStyle
		if m.StatusIsErr {
			style = styles.StatusErrorStyle
		}
		line += "  " + style.Render(m.StatusMsg)
	}

	return lipgloss.NewStyle().MaxWidth(m.Width).Render(line)
}
