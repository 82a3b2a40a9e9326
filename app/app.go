package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/timesman/app/nav"
	"github.com/ValentinKolb/timesman/app/pane"
	"github.com/ValentinKolb/timesman/lib/tasks"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("app")

// DefaultFrameInterval is used when no interval is configured (30 fps)
const DefaultFrameInterval = time.Second / 30

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1e1e2e")).
			Background(lipgloss.Color("#89b4fa")).
			Bold(true).
			Padding(0, 1)
	crumbStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
)

// frameMsg drives the router once
type frameMsg time.Time

// Model is the bubbletea model of the app. It buffers key presses and hands
// them to the router once per frame.
type Model struct {
	router   *nav.Router
	runner   *tasks.Runner
	interval time.Duration

	pending []tea.KeyMsg
	frames  uint64
	width   int
	height  int
	closed  bool
}

// New creates the model with the select pane as start pane.
// interval is the time between two frames, values <= 0 use DefaultFrameInterval.
func New(env pane.Env, interval time.Duration) *Model {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	root := pane.NewSelectPane(env)
	return &Model{
		router:   nav.NewRouter(root, pane.Factory{Env: env}),
		runner:   env.Runner,
		interval: interval,
		width:    80,
		height:   24,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see tea.Model)
// --------------------------------------------------------------------------

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.pending = append(m.pending, msg)
	case frameMsg:
		m.Frame(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) View() string {
	top := m.router.Top()
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render("timesman"),
		crumbStyle.Render(m.router.Breadcrumb()),
	)
	footer := footerStyle.Render(fmt.Sprintf("ctrl+c quit · %d tasks", m.runner.Active()))

	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer)-2)
	body := lipgloss.NewStyle().
		MaxWidth(m.width).
		MaxHeight(bodyHeight).
		Render(top.View(m.width, bodyHeight))

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(footer)
	return sb.String()
}

// --------------------------------------------------------------------------
// Frame Loop
// --------------------------------------------------------------------------

// Frame hands the buffered keys to the router. It never blocks.
func (m *Model) Frame(now time.Time) nav.Event {
	in := nav.Input{Keys: m.pending, Now: now}
	m.pending = nil
	m.frames++

	ev := m.router.Frame(in)
	if ev != nil {
		Logger.Debugf("frame %d: %s (depth %d)", m.frames, ev, m.router.Depth())
	}
	return ev
}

// Router returns the router of the app
func (m *Model) Router() *nav.Router {
	return m.router
}

// Close closes all panes and waits at most timeout for the background tasks
func (m *Model) Close(timeout time.Duration) {
	if m.closed {
		return
	}
	m.closed = true
	m.router.Close()
	if !m.runner.Shutdown(timeout) {
		Logger.Warningf("background tasks did not finish within %s", timeout)
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// --------------------------------------------------------------------------
// Program
// --------------------------------------------------------------------------

// Run starts the app in the terminal and blocks until the user quits or ctx ends.
// On return all panes are closed and the background tasks are shut down.
func Run(ctx context.Context, env pane.Env, interval, shutdownTimeout time.Duration, opts ...tea.ProgramOption) error {
	m := New(env, interval)
	defer m.Close(shutdownTimeout)

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	Logger.Infof("starting app with %s frame interval", m.interval)
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
