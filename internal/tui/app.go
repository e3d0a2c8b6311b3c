package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/infigrid/internal/logging"
	"github.com/mmcdole/infigrid/internal/pager"
	"github.com/mmcdole/infigrid/internal/tui/components"
	"github.com/mmcdole/infigrid/internal/tui/styles"
)

const (
	// Status bar below the grid
	StatusBarHeight = 1

	statusTimeout = 5 * time.Second
	buttonFlash   = 150 * time.Millisecond
)

// Options configures the model
type Options struct {
	Columns    int
	CellHeight int
	Logger     *slog.Logger
}

// Model is the main Bubble Tea model for the application.
// It renders the controller's items and acts as its scroll observer.
type Model struct {
	Ready bool

	// Pagination
	Pager  *pager.Controller
	Loader pager.Loader

	// UI Components
	Grid    components.Grid
	Button  components.Button
	Spinner spinner.Model
	Help    help.Model
	Keys    KeyMap

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	ShowHelp    bool

	logger *slog.Logger
}

// NewModel creates a new application model
func NewModel(ctrl *pager.Controller, loader pager.Loader, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NullLogger()
	}

	grid := components.NewGrid(opts.Columns, opts.CellHeight)
	snap := ctrl.Snapshot()
	grid.SetItems(snap.Items, snap.Loading)

	return Model{
		Pager:  ctrl,
		Loader: loader,
		Grid:   grid,
		Button: components.NewButton("Reset"),
		Spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.SpinnerStyle),
		),
		Help:   help.New(),
		Keys:   DefaultKeyMap(),
		logger: logger,
	}
}

// Init initializes the application. Loading starts once the first layout is known.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		cmd := m.syncScroll()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case spinner.TickMsg:
		// Let the tick chain die once nothing is loading
		if !m.Pager.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		m.Grid.SetSpinner(m.Spinner.View())
		return m, cmd

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(statusTimeout)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case releaseButtonMsg:
		m.Button.SetPressed(false)
		return m, nil
	}

	return m, nil
}

// handlePageLoaded applies a finished load and re-evaluates the scroll position
func (m Model) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	applied, err := m.Pager.Complete(msg.Request, msg.Items, msg.Err)
	switch {
	case err != nil && !pager.IsCanceled(err):
		m.StatusMsg = fmt.Sprintf("Load failed: %v", err)
		m.StatusIsErr = true
		cmds = append(cmds, ClearStatusCmd(statusTimeout))
	case !applied:
		m.logger.Debug("discarded page from before reset", "start", msg.Request.Start)
	}

	cmds = append(cmds, m.syncScroll())
	return m, tea.Batch(cmds...)
}

// reset restores the first page and scrolls to the top
func (m *Model) reset() tea.Cmd {
	m.Pager.Reset()
	m.Grid.Reset()
	m.StatusMsg = ""
	m.StatusIsErr = false
	m.updateLayout()
	return m.syncScroll()
}

// syncScroll pushes controller state into the grid and reports the grid's
// visible window to the controller. A started load is returned as a command.
func (m *Model) syncScroll() tea.Cmd {
	snap := m.Pager.Snapshot()
	m.Grid.SetItems(snap.Items, snap.Loading)

	// Filtered views do not reflect the end of the list
	if !m.Ready || m.Grid.IsFiltering() {
		return nil
	}

	last, total := m.Grid.VisibleWindow()
	req, ok := m.Pager.OnScrollPositionChanged(last, total)
	if !ok {
		return nil
	}

	m.Grid.SetItems(snap.Items, true)
	m.Grid.SetSpinner(m.Spinner.View())
	return tea.Batch(LoadPageCmd(m.Loader, req), m.Spinner.Tick)
}

type releaseButtonMsg struct{}

func releaseButtonCmd() tea.Cmd {
	return tea.Tick(buttonFlash, func(time.Time) tea.Msg {
		return releaseButtonMsg{}
	})
}
