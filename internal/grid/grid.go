// Package grid describes the immutable cell layout shared by the mosaic and
// the transition mask.
package grid

import (
	"fmt"

	"github.com/san-kum/mosaicfx/internal/dynamo"
)

// Grid is a rows×cols shape with a fixed distance between cell centres.
// A Grid is never mutated; a resize builds a new one.
type Grid struct {
	rows, cols int
	spacing    float64
}

// Vec3 is a world-space position. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

func New(rows, cols int, spacing float64) (Grid, error) {
	if rows <= 0 || cols <= 0 {
		return Grid{}, fmt.Errorf("grid %dx%d: %w", rows, cols, dynamo.ErrInvalidConfig)
	}
	if spacing <= 0 || !dynamo.Finite(spacing) {
		return Grid{}, fmt.Errorf("grid spacing %g: %w", spacing, dynamo.ErrInvalidConfig)
	}
	return Grid{rows: rows, cols: cols, spacing: spacing}, nil
}

// Square is shorthand for New(n, n, spacing).
func Square(n int, spacing float64) (Grid, error) {
	return New(n, n, spacing)
}

func (g Grid) Rows() int              { return g.rows }
func (g Grid) Cols() int              { return g.cols }
func (g Grid) Spacing() float64       { return g.spacing }
func (g Grid) Len() int               { return g.rows * g.cols }
func (g Grid) Index(col, row int) int { return row*g.cols + col }

// Coord returns the column and row of cell i.
func (g Grid) Coord(i int) (col, row int) {
	return i % g.cols, i / g.cols
}

// Contains reports whether (col, row) addresses a cell.
func (g Grid) Contains(col, row int) bool {
	return col >= 0 && col < g.cols && row >= 0 && row < g.rows
}

// Position maps cell i onto the XZ plane, centred on the origin.
func (g Grid) Position(i int) Vec3 {
	col, row := g.Coord(i)
	halfX := float64(g.cols-1) * g.spacing * 0.5
	halfZ := float64(g.rows-1) * g.spacing * 0.5
	return Vec3{
		X: float64(col)*g.spacing - halfX,
		Z: float64(row)*g.spacing - halfZ,
	}
}

// Extent is the side length covered by the cell centres plus one cell.
func (g Grid) Extent(cellSize float64) (w, d float64) {
	return float64(g.cols-1)*g.spacing + cellSize, float64(g.rows-1)*g.spacing + cellSize
}

// Normalized returns (col, row) scaled to [0,1]. Single-cell axes map to 0.
func (g Grid) Normalized(i int) (x, y float64) {
	col, row := g.Coord(i)
	if g.cols > 1 {
		x = float64(col) / float64(g.cols-1)
	}
	if g.rows > 1 {
		y = float64(row) / float64(g.rows-1)
	}
	return x, y
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d@%g", g.rows, g.cols, g.spacing)
}
