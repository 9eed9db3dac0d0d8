package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the dashboard palette.
type Theme struct {
	Name    string
	Primary lipgloss.Color // rpm, speed, graph
	Accent  lipgloss.Color // gear, boost
	Text    lipgloss.Color
	Muted   lipgloss.Color
	OK      lipgloss.Color
	Alert   lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:    "night",
		Primary: lipgloss.Color("#00f0ff"),
		Accent:  lipgloss.Color("#ffa000"),
		Text:    lipgloss.Color("#dcdcdc"),
		Muted:   lipgloss.Color("#787878"),
		OK:      lipgloss.Color("#64ff64"),
		Alert:   lipgloss.Color("#ff283c"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		OK:      lipgloss.Color("#88ff88"),
		Alert:   lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		OK:      lipgloss.Color("#00ff00"),
		Alert:   lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeNight, ThemeRetroGreen, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to night.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
