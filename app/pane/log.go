package pane

import (
	"strings"

	"github.com/ValentinKolb/timesman/app/nav"
	"github.com/ValentinKolb/timesman/lib/logging"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// LogPane shows the newest in-memory log records
type LogPane struct {
	records []logging.Record
	offset  int // lines scrolled up from the bottom
	follow  bool

	keys keyMap
	help help.Model
}

// NewLogPane creates the log pane
func NewLogPane() *LogPane {
	p := &LogPane{
		follow: true,
		keys:   utilKeys(),
		help:   help.New(),
	}
	p.Reload()
	return p
}

// --------------------------------------------------------------------------
// Interface Methods (docu see nav.Pane)
// --------------------------------------------------------------------------

func (p *LogPane) Title() string {
	return "log"
}

func (p *LogPane) Update(in nav.Input) nav.Event {
	if p.follow {
		p.Reload()
	}
	for _, k := range in.Keys {
		switch {
		case key.Matches(k, p.keys.Back):
			return nav.Pop{}
		case key.Matches(k, p.keys.Refresh):
			p.offset = 0
			p.follow = true
			p.Reload()
		case key.Matches(k, p.keys.Up):
			p.offset = min(p.offset+1, max(0, len(p.records)-1))
			p.follow = false
		case key.Matches(k, p.keys.Down):
			p.offset = max(0, p.offset-1)
			p.follow = p.offset == 0
		}
	}
	return nil
}

// Reload takes a new snapshot of the records
func (p *LogPane) Reload() {
	p.records = logging.Records()
}

func (p *LogPane) Close() {}

func (p *LogPane) View(width, height int) string {
	var sb strings.Builder

	rows := max(1, height-3)
	end := len(p.records) - p.offset
	start := max(0, end-rows)
	if len(p.records) == 0 {
		sb.WriteString(mutedStyle.Render("no log records"))
		sb.WriteString("\n")
	}
	for _, r := range p.records[start:max(start, end)] {
		line := truncate(r.String(), width)
		switch r.Level {
		case logging.LevelError:
			line = errorStyle.Render(line)
		case logging.LevelWarn:
			line = warnStyle.Render(line)
		case logging.LevelDebug:
			line = mutedStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	p.help.Width = width
	sb.WriteString("\n")
	sb.WriteString(p.help.View(p.keys))
	return sb.String()
}
