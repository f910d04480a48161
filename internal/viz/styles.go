package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mosaicfx/internal/sampler"
)

const brick = "  "

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary).MarginBottom(1)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(12)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Text)
}

func accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Accent)
}

func statsStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(CurrentTheme.Border).
		Padding(1, 2).
		Width(46)
}

func helpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).MarginTop(1)
}

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
)

// Swatch renders one brick in colour c.
func Swatch(c sampler.RGB) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(brick)
}

// Blend mixes a toward b by t.
func Blend(a, b sampler.RGB, t float64) sampler.RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return sampler.FromColorful(a.Colorful().BlendRgb(b.Colorful(), t))
}

// ProgressBar renders p in [0,1] as a bar of width cells.
func ProgressBar(p float64, width int) string {
	filled := int(p * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return accentStyle().Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(CurrentTheme.Border).Render(strings.Repeat("░", width-filled))
}

func Separator(width int) string {
	mid := width / 2
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).
		Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-3))
}
