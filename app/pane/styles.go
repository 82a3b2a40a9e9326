package pane

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#89b4fa")
	colorMuted  = lipgloss.Color("#6c7086")
	colorText   = lipgloss.Color("#cdd6f4")
	colorError  = lipgloss.Color("#f38ba8")
	colorWarn   = lipgloss.Color("#f9e2af")

	cursorStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	titleStyle    = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	warnStyle     = lipgloss.NewStyle().Foreground(colorWarn)
	sectionStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// truncate cuts s (which may be styled) to width cells
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
