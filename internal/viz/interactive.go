package viz

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mosaicfx/internal/config"
	"github.com/san-kum/mosaicfx/internal/scene"
)

var presetInfo = map[string]string{
	"calm":   "soft springs, slow build",
	"lively": "stiff springs, wide ripples",
	"snappy": "quick build and transitions",
}

const (
	stateMenu = iota
	stateTune
	stateLive
)

// tunable is one parameter editable from the menu before the preview starts.
type tunable struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
	step float64
}

var tunables = []tunable{
	{"size", func(c *config.Config) float64 { return float64(c.Grid.Size) },
		func(c *config.Config, v float64) { c.Grid.Size = int(v) }, 2},
	{"spring", func(c *config.Config) float64 { return c.Wave.Spring },
		func(c *config.Config, v float64) { c.Wave.Spring = v }, 5},
	{"damping", func(c *config.Config) float64 { return c.Wave.Damping },
		func(c *config.Config, v float64) { c.Wave.Damping = v }, 0.5},
	{"impulse", func(c *config.Config) float64 { return c.ImpulseStrength },
		func(c *config.Config, v float64) { c.ImpulseStrength = v }, 0.25},
	{"fall", func(c *config.Config) float64 { return c.Build.FallDuration },
		func(c *config.Config, v float64) { c.Build.FallDuration = v }, 0.1},
}

type menu struct {
	state, cursor int
	presets       []string
	base          *config.Config
	cfg           *config.Config
	param         int
	err           error
	logger        *log.Logger
	scene         *scene.Scene
	live          Model
}

// NewMenu lists the presets. Grid, seed, sources and timeouts are carried
// over from base.
func NewMenu(base *config.Config, logger *log.Logger) *menu {
	return &menu{
		state:   stateMenu,
		presets: config.ListPresets(),
		base:    base,
		logger:  logger,
	}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		live, cmd := m.live.Update(msg)
		m.live = live.(Model)
		return m, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(key)
		case stateTune:
			return m.tuneKey(key)
		}
	}
	return m, nil
}

func (m menu) menuKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.cfg.Image, m.cfg.Pattern = m.base.Image, m.base.Pattern
		m.cfg.LoadTimeout, m.cfg.Palettes = m.base.LoadTimeout, m.base.Palettes
		m.cfg.Grid, m.cfg.Timing.Seed = m.base.Grid, m.base.Timing.Seed
		m.state, m.param, m.err = stateTune, 0, nil
	}
	return m, nil
}

func (m menu) tuneKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateMenu
	case "up", "k":
		if m.param > 0 {
			m.param--
		}
	case "down", "j":
		if m.param < len(tunables)-1 {
			m.param++
		}
	case "left", "h":
		t := tunables[m.param]
		t.set(m.cfg, t.get(m.cfg)-t.step)
	case "right", "l":
		t := tunables[m.param]
		t.set(m.cfg, t.get(m.cfg)+t.step)
	case "enter", "s":
		return m.start()
	}
	return m, nil
}

func (m menu) start() (menu, tea.Cmd) {
	s, err := scene.New(m.cfg, m.logger)
	if err != nil {
		m.err = err
		return m, nil
	}
	s.Load(context.Background())
	m.scene, m.live, m.state = s, NewModel(s, m.cfg.Dt), stateLive
	return m, m.live.Init()
}

func (m menu) View() string {
	switch m.state {
	case stateTune:
		return m.viewTune()
	case stateLive:
		return m.live.View()
	}
	return m.viewMenu()
}

func hint(keys ...string) string {
	key := lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
	text := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(keys); i += 2 {
		b.WriteString(key.Render(keys[i]) + text.Render(" "+keys[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m menu) viewMenu() string {
	var b strings.Builder
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	b.WriteString("\n\n    " + headerStyle().Render("MOSAICFX") + "\n    " + sub.Render("brick mosaic preview") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", accentStyle().Render("▸"),
				valueStyle().Bold(true).Render(fmt.Sprintf("%-10s", name)), accentStyle().Render(presetInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-10s", name)), sub.Render(presetInfo[name])))
		}
	}
	return b.String() + hint("j/k", "navigate", "enter", "select", "q", "quit")
}

func (m menu) viewTune() string {
	var b strings.Builder
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	name := m.presets[m.cursor]
	b.WriteString("\n\n    " + headerStyle().Render(strings.ToUpper(name)) + "\n    " + sub.Render(presetInfo[name]) + "\n\n")
	for i, t := range tunables {
		line := fmt.Sprintf("%-10s %8.3f", t.name, t.get(m.cfg))
		if i == m.param {
			b.WriteString("    " + accentStyle().Render("▸ "+line) + "\n")
		} else {
			b.WriteString("      " + sub.Render(line) + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(m.err.Error()) + "\n")
	}
	return b.String() + hint("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back")
}

// Scene is the running preview scene, nil until one was started.
func (m menu) Scene() *scene.Scene { return m.scene }

// RunInteractive shows the preset menu and then the live preview.
func RunInteractive(base *config.Config, logger *log.Logger) error {
	final, err := tea.NewProgram(NewMenu(base, logger), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if mm, ok := final.(menu); ok && mm.scene != nil {
		mm.scene.Destroy()
	}
	return err
}
