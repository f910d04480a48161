package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the panels around the mosaic.
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Border   lipgloss.Color
	Backdrop string // hex, fills the gaps between bricks
}

var (
	ThemeStudio = Theme{
		Name:     "studio",
		Primary:  lipgloss.Color("#efe4d3"),
		Accent:   lipgloss.Color("#f28f3b"),
		Text:     lipgloss.Color("#f5f1ea"),
		Muted:    lipgloss.Color("#8a8178"),
		Border:   lipgloss.Color("#3d3833"),
		Backdrop: "#1b1a17",
	}

	ThemeVinyl = Theme{
		Name:     "vinyl",
		Primary:  lipgloss.Color("#ccc9dc"),
		Accent:   lipgloss.Color("#ff6b6b"),
		Text:     lipgloss.Color("#e0e0e8"),
		Muted:    lipgloss.Color("#5c5a6e"),
		Border:   lipgloss.Color("#2b2724"),
		Backdrop: "#0c0b0a",
	}

	ThemeMono = Theme{
		Name:     "mono",
		Primary:  lipgloss.Color("#ffffff"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#dddddd"),
		Muted:    lipgloss.Color("#777777"),
		Border:   lipgloss.Color("#444444"),
		Backdrop: "#000000",
	}

	CurrentTheme = ThemeStudio

	Themes = []Theme{ThemeStudio, ThemeVinyl, ThemeMono}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeStudio
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme cycles CurrentTheme and returns the new name.
func NextTheme() string {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return CurrentTheme.Name
		}
	}
	CurrentTheme = Themes[0]
	return CurrentTheme.Name
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
