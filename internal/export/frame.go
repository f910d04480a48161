package export

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/san-kum/mosaicfx/internal/sampler"
	"github.com/san-kum/mosaicfx/internal/scene"
)

type FrameOptions struct {
	CellPx     int
	Background string
	// Relief brightens raised bricks: shade = 1 + height*Relief.
	Relief  float64
	Inset   float64
	Overlay bool
}

func DefaultFrameOptions() FrameOptions {
	return FrameOptions{
		CellPx:     12,
		Background: "#1b1a17",
		Relief:     1.5,
		Inset:      0.08,
		Overlay:    true,
	}
}

// Frame renders the mosaic top-down: one square per brick, sized by its
// build scale and lit by its height, with the transition overlay on top.
func Frame(s *scene.Scene, o FrameOptions) image.Image {
	if o.CellPx <= 0 {
		o.CellPx = DefaultFrameOptions().CellPx
	}
	g := s.Grid()
	px := float64(o.CellPx)
	dc := gg.NewContext(g.Cols()*o.CellPx, g.Rows()*o.CellPx)
	dc.SetHexColor(o.Background)
	dc.Clear()

	for i, t := range s.Instances().Transforms() {
		col, row := g.Coord(i)
		c := Relief(sampler.RGB{R: float64(t.R), G: float64(t.G), B: float64(t.B)}, float64(t.Y), o.Relief)
		size := px * float64(t.Scale) * (1 - o.Inset)
		x := float64(col)*px + (px-size)/2
		y := float64(row)*px + (px-size)/2
		dc.SetRGB(c.R, c.G, c.B)
		dc.DrawRectangle(x, y, size, size)
		dc.Fill()
	}

	if o.Overlay && s.Transition().Active {
		dc.DrawImage(Overlay(s, o.CellPx), 0, 0)
	}
	return dc.Image()
}

// Overlay rasterises the transition mask at cellPx pixels per cell.
func Overlay(s *scene.Scene, cellPx int) *image.NRGBA {
	g := s.Grid()
	img := image.NewNRGBA(image.Rect(0, 0, g.Cols()*cellPx, g.Rows()*cellPx))
	px := float64(cellPx)
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			a := s.Alpha(col, row)
			if a <= 0 {
				continue
			}
			for dy := 0; dy < cellPx; dy++ {
				for dx := 0; dx < cellPx; dx++ {
					u := (float64(dx) + 0.5) / px
					v := (float64(dy) + 0.5) / px
					c := s.OverlayColor(col, row, u, v)
					img.SetNRGBA(col*cellPx+dx, row*cellPx+dy, color.NRGBA{
						R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(a),
					})
				}
			}
		}
	}
	return img
}

// Relief shades c by height h.
func Relief(c sampler.RGB, h, relief float64) sampler.RGB {
	f := 1 + h*relief
	if f < 0.3 {
		f = 0.3
	}
	return c.Scale(f).Clamp()
}

func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
