package export

import (
	"bytes"
	"errors"
	"image/gif"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fogleman/gg"

	"github.com/san-kum/mosaicfx/internal/config"
	"github.com/san-kum/mosaicfx/internal/dynamo"
	"github.com/san-kum/mosaicfx/internal/sampler"
	"github.com/san-kum/mosaicfx/internal/scene"
)

func newScene(t *testing.T) *scene.Scene {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Grid.Size = 4
	cfg.Timing.AppearDuration, cfg.Timing.HoldDuration, cfg.Timing.DisappearDuration = 0.2, 0.1, 0.2
	cfg.Timing.Grace = 0
	s, err := scene.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFrame_Size(t *testing.T) {
	s := newScene(t)
	o := DefaultFrameOptions()
	o.CellPx = 10
	img := Frame(s, o)
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("expected 40x40 frame, got %v", b)
	}
}

func TestFrame_OverlayCoversDuringHold(t *testing.T) {
	s := newScene(t)
	s.SetColors(make(sampler.ColorField, 16))
	for i := 0; i < 120; i++ {
		s.Tick(1.0 / 60)
	}
	s.Trigger(1)
	for i := 0; i < 14; i++ {
		s.Tick(1.0 / 60)
	}
	if s.Transition().Phase.String() != "held" {
		t.Fatalf("expected held, got %s", s.Transition().Phase)
	}

	o := DefaultFrameOptions()
	o.Inset = 0
	img := Frame(s, o)
	want := s.OverlayColor(1, 1, 0.5/12+6.0/12, 0.5/12+6.0/12)
	r, g, b, _ := img.At(12+6, 12+6).RGBA()
	got := sampler.RGB{R: float64(r) / 0xffff, G: float64(g) / 0xffff, B: float64(b) / 0xffff}
	if abs(got.R-want.R) > 0.02 || abs(got.G-want.G) > 0.02 || abs(got.B-want.B) > 0.02 {
		t.Errorf("expected overlay colour %+v, got %+v", want, got)
	}
}

func TestFrame_BlackBricksWithoutOverlay(t *testing.T) {
	s := newScene(t)
	s.SetColors(make(sampler.ColorField, 16))
	s.Tick(0)
	img := Frame(s, DefaultFrameOptions())
	r, g, b, _ := img.At(6, 6).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black brick, got %d %d %d", r, g, b)
	}
}

func TestTransition_RecordsWholeRun(t *testing.T) {
	s := newScene(t)
	o := DefaultFrameOptions()
	o.CellPx = 4
	rec, err := Transition(s, 1, 30, o)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Len() < 12 {
		t.Errorf("expected a frame per tick of the run, got %d", rec.Len())
	}
	if s.Transition().Active {
		t.Error("expected transition finished")
	}

	var buf bytes.Buffer
	if err := rec.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != rec.Len() {
		t.Errorf("expected %d frames, got %d", rec.Len(), len(g.Image))
	}
	if g.Delay[0] != 3 {
		t.Errorf("expected delay 3, got %d", g.Delay[0])
	}
}

func TestTransition_InvalidFPS(t *testing.T) {
	if _, err := Transition(newScene(t), 1, 0, DefaultFrameOptions()); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected bounds error, got %v", err)
	}
}

func TestRecorder_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRecorder(30).Encode(&buf); !errors.Is(err, dynamo.ErrNotReady) {
		t.Errorf("expected not ready, got %v", err)
	}
}

func TestSavePNG(t *testing.T) {
	s := newScene(t)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := SavePNG(path, Frame(s, DefaultFrameOptions())); err != nil {
		t.Fatal(err)
	}
	img, err := gg.LoadPNG(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 48 {
		t.Errorf("expected width 48, got %d", img.Bounds().Dx())
	}
}

func TestSVG(t *testing.T) {
	s := newScene(t)
	svg := SVG(s, DefaultFrameOptions())
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete svg document")
	}
	if n := strings.Count(svg, "<rect"); n != 17 {
		t.Errorf("expected background plus 16 bricks, got %d rects", n)
	}

	s.Trigger(1)
	s.Tick(0.25)
	svg = SVG(s, DefaultFrameOptions())
	if !strings.Contains(svg, "fill-opacity") {
		t.Error("expected overlay rects during a transition")
	}
}

func TestRelief(t *testing.T) {
	c := sampler.RGB{R: 0.5, G: 0.5, B: 0.5}
	if Relief(c, 0.2, 1).R <= Relief(c, 0, 1).R {
		t.Error("expected raised bricks to be lighter")
	}
	if Relief(c, -10, 1).R != 0.15 {
		t.Errorf("expected floor shade, got %f", Relief(c, -10, 1).R)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
