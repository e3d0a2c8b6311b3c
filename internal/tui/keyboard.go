package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg routes key presses to app actions or the grid
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.Pager.Close()
		return m, tea.Quit
	}

	// Filter input captures everything while typing
	if m.Grid.IsFilterTyping() {
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		cmd = tea.Batch(cmd, m.syncScroll())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Pager.Close()
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Reset):
		cmd := m.reset()
		return m, cmd

	case key.Matches(msg, m.Keys.Help):
		m.ShowHelp = !m.ShowHelp
		m.Help.ShowAll = m.ShowHelp
		m.updateLayout()
		cmd := m.syncScroll()
		return m, cmd
	}

	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	cmd = tea.Batch(cmd, m.syncScroll())
	return m, cmd
}

// handleMouseMsg handles reset clicks and wheel scrolling
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.Button.Clicked(msg) {
		m.Button.SetPressed(true)
		cmd := tea.Batch(m.reset(), releaseButtonCmd())
		return m, cmd
	}

	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		m.Grid.ScrollBy(1)
	case tea.MouseButtonWheelUp:
		m.Grid.ScrollBy(-1)
	default:
		return m, nil
	}
	cmd := m.syncScroll()
	return m, cmd
}
