package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mosaicfx/internal/anim"
	"github.com/san-kum/mosaicfx/internal/config"
	"github.com/san-kum/mosaicfx/internal/sampler"
	"github.com/san-kum/mosaicfx/internal/scene"
	"github.com/san-kum/mosaicfx/internal/transition"
)

func newModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Grid.Size = 6
	s, err := scene.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(s, 1.0/60)
}

func key(k string) tea.KeyMsg {
	switch k {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_TickAdvancesScene(t *testing.T) {
	m := send(newModel(t), TickMsg{}, TickMsg{})
	if m.scene.Time() <= 0 {
		t.Error("expected scene time to advance")
	}
	if len(m.energy) != 2 {
		t.Errorf("expected 2 energy samples, got %d", len(m.energy))
	}
}

func TestModel_Pause(t *testing.T) {
	m := send(newModel(t), key(" "), TickMsg{})
	if m.scene.Time() != 0 {
		t.Error("expected paused model not to tick")
	}
}

func TestModel_TriggerKey(t *testing.T) {
	m := send(newModel(t), key("n"), TickMsg{})
	if st := m.scene.Transition(); st.Phase != transition.Appearing || st.Run != 1 {
		t.Errorf("expected first run appearing, got %s run %d", st.Phase, st.Run)
	}
	m = send(m, key("enter"), TickMsg{})
	if st := m.scene.Transition(); st.Run != 2 {
		t.Errorf("expected retrigger to start run 2, got %d", st.Run)
	}
}

func TestModel_MouseHover(t *testing.T) {
	m := newModel(t)
	m = send(m, tea.MouseMsg{X: originX + 2*3, Y: originY + 3, Action: tea.MouseActionMotion}, TickMsg{})
	if m.scene.Wave().Heights().MaxAbs() == 0 {
		t.Error("expected pointer motion to ripple the wave")
	}
}

func TestModel_CellAt(t *testing.T) {
	m := newModel(t)
	tests := []struct {
		x, y     int
		col, row int
		ok       bool
	}{
		{originX, originY, 0, 0, true},
		{originX + 1, originY, 0, 0, true},
		{originX + 2, originY + 5, 1, 5, true},
		{originX - 1, originY, 0, 0, false},
		{originX + 12, originY, 0, 0, false},
		{originX, originY + 6, 0, 0, false},
	}
	for _, tt := range tests {
		col, row, ok := m.cellAt(tt.x, tt.y)
		if ok != tt.ok || (ok && (col != tt.col || row != tt.row)) {
			t.Errorf("cellAt(%d,%d) = %d,%d,%v, expected %d,%d,%v", tt.x, tt.y, col, row, ok, tt.col, tt.row, tt.ok)
		}
	}
}

func TestModel_ColorFollowsOverlay(t *testing.T) {
	m := newModel(t)
	m.scene.SetColors(make(sampler.ColorField, 36))
	m = send(m, key("n"))
	for i := 0; i < 75; i++ {
		m = send(m, TickMsg{})
	}
	if m.scene.Transition().Phase != transition.Held {
		t.Fatalf("expected held, got %s", m.scene.Transition().Phase)
	}
	want := m.scene.OverlayColor(2, 2, 0.5, 0.5)
	if got := m.Color(m.scene.Grid().Index(2, 2), 2, 2); got != want {
		t.Errorf("expected overlay colour %+v under full cover, got %+v", want, got)
	}
}

func TestModel_Views(t *testing.T) {
	m := send(newModel(t), TickMsg{})
	out := m.View()
	if !strings.Contains(out, "MOSAICFX") {
		t.Error("expected header in view")
	}
	for i := 0; i < 2; i++ {
		m = send(m, key("v"))
		if out := m.View(); !strings.ContainsRune(out, '⠀') && !strings.ContainsAny(out, "⠁⠂⠄⡀") {
			t.Errorf("expected braille output in %s view", m.mode)
		}
	}
	m = send(m, key("v"))
	if m.mode != viewMosaic {
		t.Errorf("expected views to cycle back to mosaic, got %s", m.mode)
	}
	m = send(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help panel")
	}
}

func TestModel_Quit(t *testing.T) {
	_, cmd := newModel(t).Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(ThemeStudio.Name)
	seen := map[string]bool{CurrentTheme.Name: true}
	for range Themes {
		seen[NextTheme()] = true
	}
	if len(seen) != len(Themes) {
		t.Errorf("expected to visit %d themes, got %d", len(Themes), len(seen))
	}
	if GetTheme("nope").Name != ThemeStudio.Name {
		t.Error("expected default theme for unknown name")
	}
}

func TestBlend(t *testing.T) {
	a, b := sampler.RGB{}, sampler.RGB{R: 1, G: 1, B: 1}
	if Blend(a, b, 0) != a || Blend(a, b, 1) != b {
		t.Error("expected blend endpoints")
	}
	if mid := Blend(a, b, 0.5); mid.R <= 0.4 || mid.R >= 0.6 {
		t.Errorf("expected mid grey, got %+v", mid)
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.Dots(); w != 8 || h != 8 {
		t.Fatalf("expected 8x8 dots, got %dx%d", w, h)
	}
	c.Set(0, 0)
	c.Set(1, 3)
	c.Set(-1, 0)
	c.Set(100, 100)
	if got := c.Rune(0, 0); got != brailleBase|0x1|0x80 {
		t.Errorf("unexpected cell %U", got)
	}
	c.Clear()
	c.DrawLine(0, 0, 7, 7)
	lit := 0
	for row := 0; row < 2; row++ {
		for col := 0; col < 4; col++ {
			if c.Rune(col, row) != brailleBase {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("expected line to light cells")
	}
	c.Clear()
	c.Profile([]float64{0, 1, -1, 0}, 1)
	if c.String() == NewCanvas(4, 2).String() {
		t.Error("expected profile to draw")
	}
}

func TestCamera_ProjectCentre(t *testing.T) {
	cam := NewCamera()
	x, y, _, ok := cam.Project(Vec3{}, 100, 80)
	if !ok || x != 50 || y != 40 {
		t.Errorf("expected origin at centre, got %d,%d,%v", x, y, ok)
	}
	c := NewCanvas(20, 10)
	RenderInstances(c, []anim.Transform{{X: 0.5, Z: -0.5}, {X: -0.5, Z: 0.5}}, 1, 1, cam)
	if c.String() == NewCanvas(20, 10).String() {
		t.Error("expected instances to render")
	}
}

func TestMenu_StartsPreview(t *testing.T) {
	base := config.DefaultConfig()
	var mm tea.Model = *NewMenu(base, nil)
	step := func(msg tea.Msg) {
		mm, _ = mm.Update(msg)
	}
	step(key("j"))
	step(key("enter"))
	menuState := mm.(menu)
	if menuState.state != stateTune || menuState.presets[menuState.cursor] != "lively" {
		t.Fatalf("expected to tune lively, got state %d", menuState.state)
	}
	step(tea.KeyMsg{Type: tea.KeyLeft})
	if got := mm.(menu).cfg.Grid.Size; got != base.Grid.Size-2 {
		t.Errorf("expected size decreased to %d, got %d", base.Grid.Size-2, got)
	}
	step(key("s"))
	final := mm.(menu)
	if final.state != stateLive || final.Scene() == nil {
		t.Fatal("expected live preview")
	}
	if !strings.Contains(mm.View(), "MOSAICFX") {
		t.Error("expected live view")
	}
	final.Scene().Destroy()
}

func TestMenu_KeepsBaseOverrides(t *testing.T) {
	base := config.DefaultConfig()
	base.Grid.Size = 10
	base.Timing.Seed = 7
	base.Image = "cover.png"
	var mm tea.Model = *NewMenu(base, nil)
	mm, _ = mm.Update(key("enter"))
	cfg := mm.(menu).cfg
	if cfg.Grid.Size != 10 || cfg.Timing.Seed != 7 || cfg.Image != "cover.png" {
		t.Errorf("expected base overrides kept, got size %d seed %d image %q", cfg.Grid.Size, cfg.Timing.Seed, cfg.Image)
	}
	if want := config.GetPreset(mm.(menu).presets[0]).Wave; cfg.Wave != want {
		t.Errorf("expected preset wave %+v, got %+v", want, cfg.Wave)
	}
}
