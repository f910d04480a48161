package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mosaicfx/internal/export"
	"github.com/san-kum/mosaicfx/internal/sampler"
	"github.com/san-kum/mosaicfx/internal/scene"
)

const (
	historyCapacity = 600
	relief          = 1.5
	// originX, originY locate the first brick on screen, after canvasStyle padding.
	originX = 2
	originY = 1
)

type TickMsg time.Time

type viewMode int

const (
	viewMosaic viewMode = iota
	viewProfile
	view3D
)

func (v viewMode) String() string {
	switch v {
	case viewProfile:
		return "profile"
	case view3D:
		return "3d"
	default:
		return "mosaic"
	}
}

// Model is the live preview: the mosaic drawn as coloured blocks, pointer
// motion feeding ripples, and a key to run the transition.
type Model struct {
	scene     *scene.Scene
	dt        float64
	running   bool
	mode      viewMode
	counter   uint64
	energy    []float64
	canvas    *Canvas
	camera    *Camera
	half      float64
	recorder  *export.Recorder
	recording bool
	gifPath   string
	status    string
	showHelp  bool
}

func NewModel(s *scene.Scene, dt float64) Model {
	g := s.Grid()
	half := math.Abs(g.Position(0).X)
	if half == 0 {
		half = 1
	}
	return Model{
		scene:   s,
		dt:      dt,
		running: true,
		energy:  make([]float64, 0, historyCapacity),
		canvas:  NewCanvas(2*g.Cols(), g.Rows()),
		camera:  NewCamera(),
		half:    half,
		gifPath: "mosaic.gif",
	}
}

// SetGIFPath sets where G recordings are written.
func (m *Model) SetGIFPath(p string) { m.gifPath = p }

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n", "enter":
			m.counter++
			m.scene.Trigger(m.counter)
		case "r":
			m.scene.Restart()
			m.energy = m.energy[:0]
		case "c":
			g := m.scene.Grid()
			m.scene.Hover(g.Cols()/2, g.Rows()/2)
		case "v":
			m.mode = (m.mode + 1) % 3
		case "t":
			m.status = "theme " + NextTheme()
		case "g":
			m.toggleRecording()
		case "left", "h":
			m.camera.RotateY(-0.1)
		case "right", "l":
			m.camera.RotateY(0.1)
		case "up", "k":
			m.camera.RotateX(0.1)
		case "down", "j":
			m.camera.RotateX(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if m.showHelp || m.mode != viewMosaic {
			return m, nil
		}
		if msg.Action == tea.MouseActionMotion || msg.Action == tea.MouseActionPress {
			if col, row, ok := m.cellAt(msg.X, msg.Y); ok {
				m.scene.Hover(col, row)
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// cellAt maps a terminal position to the brick under it.
func (m Model) cellAt(x, y int) (int, int, bool) {
	col, row := (x-originX)/2, y-originY
	if x < originX || y < originY || !m.scene.Grid().Contains(col, row) {
		return 0, 0, false
	}
	return col, row, true
}

func (m *Model) step() {
	m.scene.Tick(m.dt)
	m.energy = append(m.energy, m.scene.Wave().Energy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
	if m.recording {
		m.recorder.Add(export.Frame(m.scene, m.frameOptions()))
	}
}

func (m Model) frameOptions() export.FrameOptions {
	o := export.DefaultFrameOptions()
	o.Background = CurrentTheme.Backdrop
	return o
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recorder = export.NewRecorder(int(math.Round(1 / m.dt)))
		m.recording = true
		m.status = "recording"
		return
	}
	m.recording = false
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.gifPath)
	}
	m.recorder = nil
}

// Color is the on-screen colour of brick i at (col, row): the brick lit by
// its height, blended toward the transition overlay by the mask.
func (m Model) Color(i, col, row int) sampler.RGB {
	t := m.scene.Instances().Transforms()[i]
	c := export.Relief(sampler.RGB{R: float64(t.R), G: float64(t.G), B: float64(t.B)}, float64(t.Y), relief)
	if a := m.scene.Alpha(col, row); a > 0 {
		c = Blend(c, m.scene.OverlayColor(col, row, 0.5, 0.5), a)
	}
	return c
}

func (m Model) renderMosaic() string {
	g := m.scene.Grid()
	var b strings.Builder
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			b.WriteString(Swatch(m.Color(g.Index(col, row), col, row)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderProfile() string {
	g := m.scene.Grid()
	h := m.scene.Wave().Heights()
	row := make([]float64, g.Cols())
	mid := g.Rows() / 2
	for col := range row {
		if i := g.Index(col, mid); i < len(h) {
			row[col] = h[i]
		}
	}
	span := max(h.MaxAbs(), 0.02)
	m.canvas.Clear()
	m.canvas.Profile(row, span)
	return m.canvas.String()
}

func (m Model) render3D() string {
	m.canvas.Clear()
	RenderInstances(m.canvas, m.scene.Instances().Transforms(), m.half, 4, m.camera)
	return m.canvas.String()
}

func (m Model) View() string {
	var view string
	switch m.mode {
	case viewProfile:
		view = m.renderProfile()
	case view3D:
		view = m.render3D()
	default:
		view = m.renderMosaic()
	}
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(view), statsStyle().Render(m.stats()))
	if m.showHelp {
		return mainView + "\n" + helpPanel
	}
	return mainView
}

func (m Model) stats() string {
	s := m.scene
	tr := s.Transition()
	var b strings.Builder

	b.WriteString(headerStyle().Render("MOSAICFX") + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.recording {
		status += " ● REC"
	}
	b.WriteString(accentStyle().Render(status) + "\n")
	if m.status != "" {
		b.WriteString(valueStyle().Render(m.status) + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Wave energy"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		b.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", s.Time()))
	row("View", m.mode.String())
	build := "settled"
	if !s.Instances().BuildDone() {
		build = "building"
	}
	row("Build", build)
	row("Peak", fmt.Sprintf("%.4f", s.Wave().Heights().MaxAbs()))
	if s.Loading() {
		row("Image", "loading…")
	}

	b.WriteString("\n" + Separator(40) + "\n")
	row("Transition", tr.Phase.String())
	row("Progress", ProgressBar(tr.Progress, 20)+fmt.Sprintf(" %.2f", tr.Progress))
	row("Palette", s.Palette().Name)
	row("Run", fmt.Sprintf("%d", tr.Run))

	b.WriteString(helpStyle().Render("SP:Pause N:Transition R:Restart\nV:View T:Theme G:Record ?:Help Q:Quit"))
	return b.String()
}

const helpPanel = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Mouse    - Ripple the bricks        ║
║  C        - Ripple the centre        ║
║  N/Enter  - Run a transition         ║
║  Space    - Pause/Resume             ║
║  R        - Replay the build         ║
║  V        - Mosaic / profile / 3D    ║
║  Arrows   - Orbit the 3D view        ║
║  +/-      - Zoom the 3D view         ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run opens the live preview for s until the user quits.
func Run(s *scene.Scene, dt float64, gifPath string) error {
	m := NewModel(s, dt)
	if gifPath != "" {
		m.SetGIFPath(gifPath)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
