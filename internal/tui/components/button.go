package components

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/infigrid/internal/tui/styles"
)

// ButtonHeight is the rendered height of a button including its border
const ButtonHeight = 1 + BorderHeight

// Button is a full-width clickable label
type Button struct {
	label   string
	width   int
	top     int // first screen row the button occupies
	pressed bool
}

// NewButton creates a button with the given label
func NewButton(label string) Button {
	return Button{label: label}
}

// SetWidth sets the rendered width
func (b *Button) SetWidth(width int) {
	b.width = width
}

// SetTop sets the screen row of the button's top border, used for hit testing
func (b *Button) SetTop(row int) {
	b.top = row
}

// SetPressed toggles the pressed look
func (b *Button) SetPressed(pressed bool) {
	b.pressed = pressed
}

// Clicked reports whether msg is a left click inside the button
func (b Button) Clicked(msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	return msg.Y >= b.top && msg.Y < b.top+ButtonHeight &&
		msg.X >= 0 && msg.X < b.width
}

// View renders the button
func (b Button) View() string {
	style := styles.ButtonStyle
	if b.pressed {
		style = styles.ButtonPressedStyle
	}
	width := b.width - BorderWidth
	if width < len(b.label) {
		width = len(b.label)
	}
	return style.Width(width).Render(b.label)
}
