package transition

import (
	"fmt"

	"github.com/san-kum/mosaicfx/internal/sampler"
	"github.com/san-kum/mosaicfx/internal/seedfield"
)

type Palette struct {
	Name   string
	Colors []sampler.RGB
}

// Pick maps r in [0,1) onto a palette entry.
func (p Palette) Pick(r float64) sampler.RGB {
	if len(p.Colors) == 0 {
		return sampler.RGB{R: 1, G: 1, B: 1}
	}
	i := int(r * float64(len(p.Colors)))
	if i < 0 {
		i = 0
	}
	if i >= len(p.Colors) {
		i = len(p.Colors) - 1
	}
	return p.Colors[i]
}

var paletteHex = []struct {
	name string
	hex  []string
}{
	{"cream", []string{"#efe4d3", "#e4d5bd", "#d8c3a5", "#c9b08f"}},
	{"vinyl", []string{"#141210", "#2b2724", "#3d3833", "#1f1c1a"}},
	{"ink", []string{"#1b2a41", "#324a5f", "#0c1821", "#ccc9dc"}},
	{"sunset", []string{"#f28f3b", "#c8553d", "#588b8b", "#ffd5c2"}},
}

// Palettes returns the curated sets in rotation order.
func Palettes() []Palette {
	out := make([]Palette, 0, len(paletteHex))
	for _, ph := range paletteHex {
		p, err := NewPalette(ph.name, ph.hex...)
		if err != nil {
			panic(err)
		}
		out = append(out, p)
	}
	return out
}

func NewPalette(name string, hex ...string) (Palette, error) {
	p := Palette{Name: name, Colors: make([]sampler.RGB, 0, len(hex))}
	for _, h := range hex {
		c, err := sampler.ParseHex(h)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %s: %w", name, err)
		}
		p.Colors = append(p.Colors, c)
	}
	return p, nil
}

// Shading colours the opaque cells of the mask.
type Shading struct {
	Pattern      sampler.Texture
	ContrastGain float64
	BorderWidth  float64
	BorderGain   float64
}

func DefaultShading(pattern sampler.Texture) Shading {
	return Shading{
		Pattern:      pattern,
		ContrastGain: 1.1,
		BorderWidth:  0.05,
		BorderGain:   1.2,
	}
}

// Shade returns the colour at local coordinates (u, v) in [0,1) of cell
// (x, y): pattern luma times a palette colour picked per cell, with a
// lighter rim along the cell border. Pure.
func (s Shading) Shade(x, y int, u, v, appearSeed float64, pal Palette) sampler.RGB {
	luma := s.Pattern.At(u, v).Luma()
	c := pal.Pick(seedfield.Draw(x, y, appearSeed, seedfield.StreamTint)).Scale(luma * s.ContrastGain)
	if u < s.BorderWidth || v < s.BorderWidth || u > 1-s.BorderWidth || v > 1-s.BorderWidth {
		c = c.Scale(s.BorderGain)
	}
	return c.Clamp()
}
