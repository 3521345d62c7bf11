package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme of the watch view.
type Theme struct {
	Name   string
	Alive  lipgloss.Color
	Dead   lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

// Available themes
var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Alive:  lipgloss.Color("#ff00ff"),
		Dead:   lipgloss.Color("#222233"),
		Accent: lipgloss.Color("#00ffff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Alive:  lipgloss.Color("#00ff00"), // Green phosphor
		Dead:   lipgloss.Color("#003300"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Alive:  lipgloss.Color("#ffffff"),
		Dead:   lipgloss.Color("#333333"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Alive:  lipgloss.Color("#feca57"),
		Dead:   lipgloss.Color("#2d1b2e"),
		Accent: lipgloss.Color("#ff6b6b"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	alive  lipgloss.Style
	dead   lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	help   lipgloss.Style
	frame  lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		alive:  lipgloss.NewStyle().Foreground(t.Alive),
		dead:   lipgloss.NewStyle().Foreground(t.Dead),
		header: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		label:  lipgloss.NewStyle().Foreground(t.Muted),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		help:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted).Padding(0, 1),
	}
}
