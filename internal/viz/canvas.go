package viz

import "strings"

// brailleBase is U+2800, the empty braille pattern. Dot bits by position
// within a 2x4 cell, left column first:
//
//	0x01 0x08
//	0x02 0x10
//	0x04 0x20
//	0x40 0x80
const brailleBase = 0x2800

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Canvas is a monochrome dot surface rendered as cols x rows braille
// characters, each holding 2x4 dots.
type Canvas struct {
	cols, rows int
	cells      []uint8
}

func NewCanvas(cols, rows int) *Canvas {
	return &Canvas{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.cols * 2, c.rows * 4 }

// Set lights dot (x, y). Dots off the canvas are dropped.
func (c *Canvas) Set(x, y int) {
	w, h := c.Dots()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= dotBits[x%2][y%4]
}

func (c *Canvas) Clear() { clear(c.cells) }

// Rune is the braille character at cell (col, row).
func (c *Canvas) Rune(col, row int) rune {
	return brailleBase + rune(c.cells[row*c.cols+col])
}

// DrawLine lights every dot on the segment between the two points.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= steps; i++ {
		// integer lerp rounded to nearest
		x := x0 + (2*dx*i+sign(dx)*steps)/(2*steps)
		y := y0 + (2*dy*i+sign(dy)*steps)/(2*steps)
		c.Set(x, y)
	}
}

// Profile plots values left to right across the full width. Zero sits on
// the middle row and ±span reaches the top and bottom edges.
func (c *Canvas) Profile(values []float64, span float64) {
	if len(values) < 2 || span <= 0 {
		return
	}
	w, h := c.Dots()
	half := float64(h/2 - 1)
	toY := func(v float64) int { return h/2 - int(v/span*half) }
	prevX, prevY := 0, toY(values[0])
	for i, v := range values[1:] {
		x := (i + 1) * (w - 1) / (len(values) - 1)
		y := toY(v)
		c.DrawLine(prevX, prevY, x, y)
		prevX, prevY = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.rows * (c.cols*3 + 1))
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.Rune(col, row))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
