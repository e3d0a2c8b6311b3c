package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/infigrid/internal/pager"
)

const (
	testWidth = 60
	// Button (3) + grid header/footer (2) + 10 rows of 3 lines + status (1) + help (1)
	tallHeight = 37
	// Leaves room for 4 rows of cells
	shortHeight = 20
)

func newTestModel(t *testing.T, loader pager.Loader, opts ...pager.Option) Model {
	t.Helper()
	if loader == nil {
		loader = pager.NewDelayLoader(0)
	}
	ctrl := pager.New(30, opts...)
	t.Cleanup(ctrl.Close)
	return NewModel(ctrl, loader, Options{Columns: 3, CellHeight: 1})
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and any batched commands, skipping ones that do not finish
// promptly (timers).
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, drain(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func pageLoads(msgs []tea.Msg) []PageLoadedMsg {
	var out []PageLoadedMsg
	for _, msg := range msgs {
		if p, ok := msg.(PageLoadedMsg); ok {
			out = append(out, p)
		}
	}
	return out
}

func TestModelLoadsWhenEndVisible(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(m, tea.WindowSizeMsg{Width: testWidth, Height: tallHeight})
	require.True(t, m.Pager.Loading(), "all 30 items visible should start a load")

	loads := pageLoads(drain(cmd))
	require.Len(t, loads, 1)
	assert.Equal(t, 31, loads[0].Request.Start)

	m, cmd = update(m, loads[0])
	assert.False(t, m.Pager.Loading())
	assert.Equal(t, 60, m.Pager.Len())
	assert.Empty(t, pageLoads(drain(cmd)), "end no longer visible")
}

func TestModelScrollToEndTriggersLoad(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight})
	assert.False(t, m.Pager.Loading())
	assert.Empty(t, pageLoads(drain(cmd)))

	m, cmd = update(m, runes("G"))
	require.True(t, m.Pager.Loading())
	loads := pageLoads(drain(cmd))
	require.Len(t, loads, 1)

	m, _ = update(m, loads[0])
	assert.Equal(t, 60, m.Pager.Len())
	assert.False(t, m.Pager.Loading())
}

func TestModelDebouncesRepeatedSignals(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight})

	m, first := update(m, runes("G"))
	require.True(t, m.Pager.Loading())

	// More scroll signals while the load is in flight
	m, cmd := update(m, runes("G"))
	assert.Empty(t, pageLoads(drain(cmd)))
	m, cmd = update(m, runes("k"))
	assert.Empty(t, pageLoads(drain(cmd)))
	m, cmd = update(m, runes("j"))
	assert.Empty(t, pageLoads(drain(cmd)))
	m, cmd = update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight + 1})
	assert.Empty(t, pageLoads(drain(cmd)))

	loads := pageLoads(drain(first))
	require.Len(t, loads, 1)
	m, _ = update(m, loads[0])
	assert.Equal(t, 60, m.Pager.Len(), "exactly one page appended")
}

func TestModelMouseWheelScroll(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight})

	wheel := tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}
	var cmd tea.Cmd
	for i := 0; i < 5; i++ {
		m, cmd = update(m, wheel)
		assert.False(t, m.Pager.Loading())
	}
	m, cmd = update(m, wheel)
	assert.True(t, m.Pager.Loading())
	assert.Len(t, pageLoads(drain(cmd)), 1)
}

func TestModelReset(t *testing.T) {
	t.Run("reset key discards in-flight page", func(t *testing.T) {
		m := newTestModel(t, nil)
		m, _ = update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight})

		m, cmd := update(m, runes("G"))
		loads := pageLoads(drain(cmd))
		require.Len(t, loads, 1)

		m, _ = update(m, runes("r"))
		assert.False(t, m.Pager.Loading())
		assert.Equal(t, 0, m.Grid.Cursor())

		m, _ = update(m, loads[0])
		assert.Equal(t, 30, m.Pager.Len())
	})

	t.Run("reset after loads restores first page", func(t *testing.T) {
		m := newTestModel(t, nil)
		m, _ = update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight})

		for i := 0; i < 2; i++ {
			var cmd tea.Cmd
			m, cmd = update(m, runes("G"))
			loads := pageLoads(drain(cmd))
			require.Len(t, loads, 1)
			m, _ = update(m, loads[0])
		}
		require.Equal(t, 90, m.Pager.Len())

		m, _ = update(m, runes("r"))
		assert.Equal(t, 30, m.Pager.Len())
	})

	t.Run("button click resets", func(t *testing.T) {
		m := newTestModel(t, nil)
		m, _ = update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight})

		m, cmd := update(m, runes("G"))
		loads := pageLoads(drain(cmd))
		require.Len(t, loads, 1)
		m, _ = update(m, loads[0])
		require.Equal(t, 60, m.Pager.Len())

		click := tea.MouseMsg{X: 5, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
		m, _ = update(m, click)
		assert.Equal(t, 30, m.Pager.Len())
		assert.Equal(t, 0, m.Grid.Offset())
	})

	t.Run("click outside button does nothing", func(t *testing.T) {
		m := newTestModel(t, nil)
		m, _ = update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight})
		m, _ = update(m, runes("j"))

		click := tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
		m, _ = update(m, click)
		assert.Equal(t, 3, m.Grid.Cursor())
	})
}

func TestModelLoadFailure(t *testing.T) {
	boom := errors.New("backend unavailable")
	loader := pager.LoaderFunc(func(context.Context, int, int) ([]int, error) {
		return nil, boom
	})
	m := newTestModel(t, loader)

	m, cmd := update(m, tea.WindowSizeMsg{Width: testWidth, Height: tallHeight})
	loads := pageLoads(drain(cmd))
	require.Len(t, loads, 1)

	m, _ = update(m, loads[0])
	assert.False(t, m.Pager.Loading(), "loading flag must not stick after a failure")
	assert.Equal(t, 30, m.Pager.Len())
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "backend unavailable")
}

func TestModelFilterSuspendsLoads(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight})

	m, _ = update(m, runes("/"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Grid.IsFiltering())

	m, cmd := update(m, runes("G"))
	assert.False(t, m.Pager.Loading())
	assert.Empty(t, pageLoads(drain(cmd)))

	m, cmd = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Grid.IsFiltering())
	assert.True(t, m.Pager.Loading(), "closing the filter at the end resumes loading")
	assert.Len(t, pageLoads(drain(cmd)), 1)
}

func TestModelRearmFillsViewport(t *testing.T) {
	m := newTestModel(t, nil, pager.WithRearmOnComplete(true))

	// Tall enough for 20 rows, so two pages must load before the end scrolls away
	m, cmd := update(m, tea.WindowSizeMsg{Width: testWidth, Height: 5 + 2 + 20*3})
	loads := pageLoads(drain(cmd))
	require.Len(t, loads, 1)

	m, cmd = update(m, loads[0])
	assert.Equal(t, 60, m.Pager.Len())
	loads = pageLoads(drain(cmd))
	require.Len(t, loads, 1, "end still visible, next page requested")

	m, cmd = update(m, loads[0])
	assert.Equal(t, 90, m.Pager.Len())
	assert.Empty(t, pageLoads(drain(cmd)))
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, "Starting...", m.View())

	m, _ = update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight})
	view := m.View()
	assert.Contains(t, view, "Reset")
	assert.Contains(t, view, "30 items")
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: testWidth, Height: shortHeight})

	_, cmd := update(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
