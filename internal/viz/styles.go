package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true).MarginTop(1)
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c lipgloss.Color) lipgloss.Style {
	return fg(c).Bold(true)
}

// Bar renders frac of width as a filled bar. frac is clamped to [0, 1].
func Bar(frac float64, width int, color lipgloss.Color) string {
	filled := int(clamp01(frac) * float64(width))
	return fg(color).Render(strings.Repeat("█", filled)) + fg(lipgloss.Color("#333333")).Render(strings.Repeat("░", width-filled))
}

// Panel renders content in a rounded box headed by title.
func Panel(title string, color lipgloss.Color, content string) string {
	return panelStyle.Render(bold(color).Render(title) + "\n" + content)
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
