package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ValentinKolb/timesman/app/nav"
	"github.com/ValentinKolb/timesman/app/pane"
	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store/lstore"
	"github.com/ValentinKolb/timesman/lib/tasks"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	s, err := lstore.NewLocalStore(filepath.Join(t.TempDir(), "times.db"))
	require.NoError(t, err)
	h := handle.New(s)
	env := pane.Env{Handle: h, Runner: tasks.NewRunner(context.Background())}
	m := New(env, 0)
	t.Cleanup(func() {
		m.Close(time.Second)
		_ = h.Close()
	})
	return m
}

// frames runs frames until cond holds
func frames(t *testing.T, m *Model, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, cmd := m.Update(frameMsg(time.Now()))
		return cmd != nil && cond()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestKeysAreBufferedUntilFrame(t *testing.T) {
	m := newModel(t)
	require.Equal(t, DefaultFrameInterval, m.interval)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("20240101")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.pending, 2)
	require.Equal(t, 1, m.Router().Depth())

	frames(t, m, func() bool { return m.Router().Depth() == 2 })
	require.Empty(t, m.pending)
	require.Equal(t, "20240101", m.Router().Top().Title())
	require.Contains(t, m.View(), "times > 20240101")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	frames(t, m, func() bool { return m.Router().Depth() == 1 })
}

func TestUtilityPanesFromKeys(t *testing.T) {
	m := newModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	ev := m.Frame(time.Now())
	require.IsType(t, nav.ShowLog{}, ev)
	require.Equal(t, "log", m.Router().Top().Title())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.IsType(t, nav.Pop{}, m.Frame(time.Now()))
	require.Equal(t, "times", m.Router().Top().Title())
}

func TestQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Empty(t, m.pending)
}

func TestWindowSize(t *testing.T) {
	m := newModel(t)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	require.Equal(t, 40, m.width)
	require.NotEmpty(t, m.View())
}

func TestCloseShutsDownRunner(t *testing.T) {
	m := newModel(t)
	m.Close(time.Second)
	m.Close(time.Second)
	require.Error(t, m.runner.Context().Err())
	require.Equal(t, 1, m.Router().Depth())
}
