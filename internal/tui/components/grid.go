package components

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/infigrid/internal/tui/styles"
)

// Layout constants for grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line.
	// The footer line doubles as the full-width loading row.
	ScrollIndicatorLines = 2

	// Filter bar at the bottom while filtering
	FilterBarLines = 1
)

// Grid renders integers as a fixed-column grid of bordered cells and tracks
// which rows are scrolled into view.
type Grid struct {
	// Content
	items   []int
	loading bool
	spinner string

	// Layout
	columns    int
	cellHeight int // interior lines per cell

	// Selection and scroll
	cursor      int // index into the (filtered) item sequence
	offset      int // first visible row
	visibleRows int

	// Dimensions
	width  int
	height int

	keys GridKeyMap

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int         // indices into items
	matched      map[int][]int // item index -> matched character positions
}

// NewGrid creates a grid with a fixed column count and cell height
func NewGrid(columns, cellHeight int) Grid {
	if columns < 1 {
		columns = 1
	}
	if cellHeight < 1 {
		cellHeight = 1
	}

	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return Grid{
		columns:     columns,
		cellHeight:  cellHeight,
		keys:        DefaultGridKeyMap(),
		filterInput: ti,
	}
}

// SetItems replaces the displayed items and loading state.
// The cursor is kept where it is, clamped to the new length.
func (g *Grid) SetItems(items []int, loading bool) {
	g.items = items
	g.loading = loading
	if g.filterActive && g.filterQuery != "" {
		g.applyFilter(false)
	}
	g.clampCursor()
	g.ensureVisible()
}

// SetSpinner sets the rendered spinner frame shown in the loading row
func (g *Grid) SetSpinner(view string) {
	g.spinner = view
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcVisibleRows()
	g.ensureVisible()
}

// Reset scrolls back to the top and drops any filter
func (g *Grid) Reset() {
	g.cursor = 0
	g.offset = 0
	g.clearFilter()
}

// Columns returns the column count
func (g Grid) Columns() int {
	return g.columns
}

// Cursor returns the current cursor position
func (g Grid) Cursor() int {
	return g.cursor
}

// Offset returns the first visible row
func (g Grid) Offset() int {
	return g.offset
}

// VisibleRows returns how many rows of cells fit in the viewport
func (g Grid) VisibleRows() int {
	return g.visibleRows
}

// SelectedValue returns the integer under the cursor
func (g Grid) SelectedValue() (int, bool) {
	count := g.itemCount()
	if count == 0 || g.cursor >= count {
		return 0, false
	}
	return g.items[g.mapIndex(g.cursor)], true
}

// VisibleWindow reports the index of the last item inside the viewport and the
// total number of items. The index is -1 when nothing is laid out.
func (g Grid) VisibleWindow() (lastVisibleIndex, totalCount int) {
	count := g.itemCount()
	if count == 0 || g.visibleRows == 0 {
		return -1, count
	}
	end := (g.offset + g.visibleRows) * g.columns
	if end > count {
		end = count
	}
	return end - 1, count
}

// rowHeight is the number of lines one row of cells takes
func (g Grid) rowHeight() int {
	return g.cellHeight + BorderHeight
}

// recalcVisibleRows calculates visibleRows accounting for indicators and filter bar
func (g *Grid) recalcVisibleRows() {
	avail := g.height - ScrollIndicatorLines
	if g.filterActive {
		avail -= FilterBarLines
	}
	if avail < g.rowHeight() {
		g.visibleRows = 0
		return
	}
	g.visibleRows = avail / g.rowHeight()
}

// rowCount returns the number of rows needed for the current items
func (g Grid) rowCount() int {
	return (g.itemCount() + g.columns - 1) / g.columns
}

// clampCursor keeps the cursor within the item range
func (g *Grid) clampCursor() {
	max := g.itemCount() - 1
	if g.cursor > max {
		g.cursor = max
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
}

// clampOffset keeps the scroll offset within the row range
func (g *Grid) clampOffset() {
	maxOffset := g.rowCount() - g.visibleRows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if g.offset > maxOffset {
		g.offset = maxOffset
	}
	if g.offset < 0 {
		g.offset = 0
	}
}

// ensureVisible scrolls so the cursor row is in view
func (g *Grid) ensureVisible() {
	row := g.cursor / g.columns
	if row < g.offset {
		g.offset = row
	}
	if g.visibleRows > 0 && row >= g.offset+g.visibleRows {
		g.offset = row - g.visibleRows + 1
	}
	g.clampOffset()
}

// MoveCursor moves the cursor by delta items, clamped to the item range
func (g *Grid) MoveCursor(delta int) {
	g.cursor += delta
	g.clampCursor()
	g.ensureVisible()
}

// ScrollBy scrolls the viewport by rows, dragging the cursor along so it stays visible
func (g *Grid) ScrollBy(rows int) {
	g.offset += rows
	g.clampOffset()

	if g.visibleRows == 0 {
		return
	}
	row := g.cursor / g.columns
	col := g.cursor % g.columns
	if row < g.offset {
		g.cursor = g.offset*g.columns + col
	}
	if row >= g.offset+g.visibleRows {
		g.cursor = (g.offset+g.visibleRows-1)*g.columns + col
	}
	g.clampCursor()
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.recalcVisibleRows()
	g.ensureVisible()
}

// IsFiltering returns true if filter mode is active
func (g Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused (typing mode)
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (g *Grid) ClearFilter() {
	g.clearFilter()
}

func (g *Grid) clearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.matched = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.recalcVisibleRows()
	g.clampCursor()
	g.ensureVisible()
}

// applyFilter filters items by fuzzy matching their decimal form
func (g *Grid) applyFilter(resetCursor bool) {
	query := g.filterInput.Value()
	g.filterQuery = query

	if query == "" {
		g.filteredIdx = nil
		g.matched = nil
	} else {
		labels := make([]string, len(g.items))
		for i, v := range g.items {
			labels[i] = strconv.Itoa(v)
		}

		matches := fuzzy.Find(query, labels)

		g.filteredIdx = make([]int, len(matches))
		g.matched = make(map[int][]int, len(matches))
		for i, match := range matches {
			g.filteredIdx[i] = match.Index
			g.matched[match.Index] = match.MatchedIndexes
		}
		// Keep grid order rather than score order
		sort.Ints(g.filteredIdx)
	}

	if resetCursor {
		g.cursor = 0
		g.offset = 0
	}
	g.clampCursor()
	g.ensureVisible()
}

// itemCount returns the number of items (accounting for filter)
func (g Grid) itemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.items)
}

// mapIndex maps a cursor position to the actual index in items
func (g Grid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// Init initializes the component
func (g Grid) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	// Handle filter input when active AND focused (typing mode)
	if g.IsFilterTyping() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, g.keys.Escape):
				g.clearFilter()
				return g, nil
			case key.Matches(msg, g.keys.Enter):
				// Accept filter, blur input to allow navigation
				g.filterInput.Blur()
				return g, nil
			case msg.Type == tea.KeyBackspace && g.filterInput.Value() == "":
				g.clearFilter()
				return g, nil
			}
		}

		prev := g.filterInput.Value()
		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		if g.filterInput.Value() != prev {
			g.applyFilter(true)
		}
		return g, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}

	// Filter active but blurred (navigation mode with filter results)
	if g.filterActive {
		switch {
		case key.Matches(keyMsg, g.keys.Escape):
			g.clearFilter()
			return g, nil
		case key.Matches(keyMsg, g.keys.Filter):
			g.filterInput.Focus()
			return g, nil
		}
	}

	if key.Matches(keyMsg, g.keys.Filter) {
		g.ToggleFilter()
		return g, textinput.Blink
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}

	halfPage := g.visibleRows / 2
	if halfPage < 1 {
		halfPage = 1
	}
	page := g.visibleRows
	if page < 1 {
		page = 1
	}

	switch {
	case key.Matches(keyMsg, g.keys.Down):
		g.MoveCursor(g.columns)
	case key.Matches(keyMsg, g.keys.Up):
		g.MoveCursor(-g.columns)
	case key.Matches(keyMsg, g.keys.Right):
		g.MoveCursor(1)
	case key.Matches(keyMsg, g.keys.Left):
		g.MoveCursor(-1)
	case key.Matches(keyMsg, g.keys.Home):
		g.cursor = 0
		g.offset = 0
	case key.Matches(keyMsg, g.keys.End):
		g.cursor = count - 1
		g.ensureVisible()
	case key.Matches(keyMsg, g.keys.HalfDown):
		g.MoveCursor(halfPage * g.columns)
	case key.Matches(keyMsg, g.keys.HalfUp):
		g.MoveCursor(-halfPage * g.columns)
	case key.Matches(keyMsg, g.keys.PageDown):
		g.MoveCursor(page * g.columns)
	case key.Matches(keyMsg, g.keys.PageUp):
		g.MoveCursor(-page * g.columns)
	}

	return g, nil
}

// View renders the component
func (g Grid) View() string {
	if g.width <= 0 || g.height <= 0 {
		return ""
	}

	var b strings.Builder

	count := g.itemCount()
	if count == 0 {
		emptyMsg := "No items"
		if g.filterActive && g.filterQuery != "" {
			emptyMsg = "No matches"
		}
		b.WriteString(" \n")
		b.WriteString(styles.DimStyle.Render(emptyMsg))
		b.WriteString("\n ")
	} else {
		b.WriteString(g.renderCells(count))
	}

	if g.filterActive {
		b.WriteString("\n")
		b.WriteString(g.renderFilterBar())
	}

	return lipgloss.NewStyle().
		Width(g.width).
		MaxHeight(g.height).
		Render(b.String())
}

// renderCells renders scroll indicators around the visible rows
func (g Grid) renderCells(count int) string {
	// ALWAYS reserve space for header (even if empty) to prevent layout shifts
	header := " "
	if g.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}

	rows := make([]string, 0, g.visibleRows)
	lastRow := g.offset + g.visibleRows
	if total := g.rowCount(); lastRow > total {
		lastRow = total
	}
	for r := g.offset; r < lastRow; r++ {
		rows = append(rows, g.renderRow(r, count))
	}

	// Footer is the full-width loading row once the end is in view
	footer := " "
	atEnd := lastRow >= g.rowCount()
	switch {
	case g.loading && atEnd:
		footer = lipgloss.PlaceHorizontal(g.width, lipgloss.Center, g.spinner+styles.DimStyle.Render(" Loading..."))
	case !atEnd:
		footer = styles.DimStyle.Render("↓ more")
	}

	parts := []string{header}
	parts = append(parts, rows...)
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}

// cellWidth returns the interior width of one cell
func (g Grid) cellWidth() int {
	w := g.width/g.columns - BorderWidth
	if w < 1 {
		w = 1
	}
	return w
}

// renderRow renders one row of cells
func (g Grid) renderRow(row, count int) string {
	cells := make([]string, 0, g.columns)
	for c := 0; c < g.columns; c++ {
		pos := row*g.columns + c
		if pos >= count {
			break
		}
		cells = append(cells, g.renderCell(pos))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// renderCell renders the item at a cursor position
func (g Grid) renderCell(pos int) string {
	idx := g.mapIndex(pos)
	label := styles.Truncate(strconv.Itoa(g.items[idx]), g.cellWidth())
	if positions, ok := g.matched[idx]; ok {
		label = highlight(label, positions)
	}

	style := styles.CellStyle
	if pos == g.cursor {
		style = styles.CellSelectedStyle
	}
	return style.
		Width(g.cellWidth()).
		Height(g.cellHeight).
		Render(label)
}

// highlight renders the matched character positions of s in the accent color
func highlight(s string, positions []int) string {
	hit := make(map[int]bool, len(positions))
	for _, p := range positions {
		hit[p] = true
	}

	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(styles.MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// renderFilterBar renders the filter input bar
func (g Grid) renderFilterBar() string {
	input := g.filterInput.View()

	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.items)))
	}
	return input + countStr
}
