package pane

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/timesman/app/nav"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// ConfigPane shows the active configuration and the counters of the handle and the runner
type ConfigPane struct {
	env Env

	keys keyMap
	help help.Model
}

// NewConfigPane creates the config pane
func NewConfigPane(env Env) *ConfigPane {
	return &ConfigPane{
		env:  env,
		keys: utilKeys(),
		help: help.New(),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see nav.Pane)
// --------------------------------------------------------------------------

func (p *ConfigPane) Title() string {
	return "config"
}

func (p *ConfigPane) Update(in nav.Input) nav.Event {
	for _, k := range in.Keys {
		if key.Matches(k, p.keys.Back) {
			return nav.Pop{}
		}
	}
	return nil
}

// Reload does nothing, the view is always rendered from the live values
func (p *ConfigPane) Reload() {}

func (p *ConfigPane) Close() {}

func (p *ConfigPane) View(width, height int) string {
	var sb strings.Builder

	if p.env.Config != nil {
		sb.WriteString(strings.TrimLeft(p.env.Config.String(), "\n"))
	} else {
		sb.WriteString(mutedStyle.Render("no configuration loaded"))
		sb.WriteString("\n")
	}

	sb.WriteString("\nRUNTIME\n")
	if p.env.Handle != nil {
		hs := p.env.Handle.Stats()
		sb.WriteString(fmt.Sprintf("  %-22s: %d\n", "Backend Calls", hs.Calls))
		sb.WriteString(fmt.Sprintf("  %-22s: %d\n", "Backend Errors", hs.Errors))
		sb.WriteString(fmt.Sprintf("  %-22s: %d\n", "Waiting for Lock", hs.Waiting))
	}
	if p.env.Runner != nil {
		rs := p.env.Runner.Stats()
		sb.WriteString(fmt.Sprintf("  %-22s: %d\n", "Tasks Running", rs.Active))
		sb.WriteString(fmt.Sprintf("  %-22s: %d\n", "Tasks Spawned", rs.Spawned))
		sb.WriteString(fmt.Sprintf("  %-22s: %d\n", "Tasks Panicked", rs.Panicked))
	}

	body := sectionStyle.MaxWidth(max(1, width)).Render(strings.TrimRight(sb.String(), "\n"))
	p.help.Width = width
	return body + "\n\n" + p.help.View(p.keys)
}
