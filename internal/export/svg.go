package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/mosaicfx/internal/sampler"
	"github.com/san-kum/mosaicfx/internal/scene"
)

// SVG writes the current mosaic as one rect per brick.
func SVG(s *scene.Scene, o FrameOptions) string {
	if o.CellPx <= 0 {
		o.CellPx = DefaultFrameOptions().CellPx
	}
	g := s.Grid()
	px := float64(o.CellPx)
	width, height := g.Cols()*o.CellPx, g.Rows()*o.CellPx

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, o.Background))

	for i, t := range s.Instances().Transforms() {
		col, row := g.Coord(i)
		c := Relief(sampler.RGB{R: float64(t.R), G: float64(t.G), B: float64(t.B)}, float64(t.Y), o.Relief)
		size := px * float64(t.Scale) * (1 - o.Inset)
		x := float64(col)*px + (px-size)/2
		y := float64(row)*px + (px-size)/2
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s"/>
`, x, y, size, size, size*0.12, c.Hex()))
	}

	if o.Overlay && s.Transition().Active {
		sb.WriteString("<g>\n")
		for row := 0; row < g.Rows(); row++ {
			for col := 0; col < g.Cols(); col++ {
				a := s.Alpha(col, row)
				if a <= 0 {
					continue
				}
				c := s.OverlayColor(col, row, 0.5, 0.5)
				sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" fill-opacity="%.3f"/>
`, col*o.CellPx, row*o.CellPx, o.CellPx, o.CellPx, c.Hex(), a))
			}
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
