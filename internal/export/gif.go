package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"

	"github.com/san-kum/mosaicfx/internal/dynamo"
	"github.com/san-kum/mosaicfx/internal/scene"
)

// Recorder collects frames for an animated GIF.
type Recorder struct {
	Delay  int // hundredths of a second per frame
	frames []*image.Paletted
}

func NewRecorder(fps int) *Recorder {
	if fps <= 0 {
		fps = 30
	}
	return &Recorder{Delay: max(1, 100/fps)}
}

// Add quantises img to the web-safe palette with dithering.
func (r *Recorder) Add(img image.Image) {
	b := img.Bounds()
	p := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.WebSafe)
	draw.FloydSteinberg.Draw(p, p.Bounds(), img, b.Min)
	r.frames = append(r.frames, p)
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() { r.frames = nil }

func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("gif: no frames: %w", dynamo.ErrNotReady)
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Transition triggers one transition run on s and records every frame until
// it returns to idle.
func Transition(s *scene.Scene, counter uint64, fps int, o FrameOptions) (*Recorder, error) {
	if fps <= 0 {
		return nil, dynamo.Bounds("fps", float64(fps))
	}
	rec := NewRecorder(fps)
	dt := 1 / float64(fps)
	limit := int(math.Ceil(s.Controller().Timing().Total()*float64(fps))) + 2

	s.Trigger(counter)
	for i := 0; i < limit; i++ {
		s.Tick(dt)
		rec.Add(Frame(s, o))
		if !s.Transition().Active {
			return rec, nil
		}
	}
	return rec, fmt.Errorf("transition did not finish in %d frames: %w", limit, dynamo.ErrInvalidState)
}
