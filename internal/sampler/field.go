package sampler

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/mosaicfx/internal/dynamo"
)

// RGB is a colour with channels normalised to [0,1].
type RGB struct {
	R, G, B float64
}

// Luma is the Rec.601 weighted brightness.
func (c RGB) Luma() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

func (c RGB) Scale(f float64) RGB {
	return RGB{c.R * f, c.G * f, c.B * f}
}

func (c RGB) Mul(o RGB) RGB {
	return RGB{c.R * o.R, c.G * o.G, c.B * o.B}
}

func (c RGB) Clamp() RGB {
	return RGB{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

func (c RGB) Hex() string {
	return c.Colorful().Clamped().Hex()
}

func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// FromColorful converts a go-colorful colour.
func FromColorful(c colorful.Color) RGB {
	return RGB{c.R, c.G, c.B}
}

// ParseHex parses "#rrggbb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, err
	}
	return FromColorful(c), nil
}

// ColorField holds one colour per grid cell in row-major order.
type ColorField []RGB

// Fallback derives a warm gradient purely from normalised cell coordinates.
// It is what consumers show when an image is missing or failed to load.
func Fallback(rows, cols int) ColorField {
	out := make(ColorField, rows*cols)
	for i := range out {
		var x, y float64
		if cols > 1 {
			x = float64(i%cols) / float64(cols-1)
		}
		if rows > 1 {
			y = float64(i/cols) / float64(rows-1)
		}
		h := (0.08 + x*0.18) * 360
		l := 0.45 + (1-y)*0.18
		out[i] = FromColorful(colorful.Hsl(h, 0.35, l).Clamped())
	}
	return out
}

// OrFallback returns f when it covers rows×cols cells, else the fallback.
func (f ColorField) OrFallback(rows, cols int) ColorField {
	if len(f) == rows*cols {
		return f
	}
	return Fallback(rows, cols)
}

// Texture is a ColorField with dimensions, sampled with wrap-around.
type Texture struct {
	W, H int
	Pix  ColorField
}

func NewTexture(w, h int, pix ColorField) Texture {
	return Texture{W: w, H: h, Pix: pix}
}

// At samples the nearest texel at (u, v), repeating outside [0,1).
// Empty textures and non-finite coordinates give white.
func (t Texture) At(u, v float64) RGB {
	if t.W == 0 || t.H == 0 || len(t.Pix) < t.W*t.H || !dynamo.Finite(u, v) {
		return RGB{1, 1, 1}
	}
	u -= math.Floor(u)
	v -= math.Floor(v)
	x := int(u * float64(t.W))
	y := int(v * float64(t.H))
	if x >= t.W {
		x = t.W - 1
	}
	if y >= t.H {
		y = t.H - 1
	}
	return t.Pix[y*t.W+x]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
