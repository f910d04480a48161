package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/mosaicfx/internal/dynamo"
)

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		spacing    float64
	}{
		{"zero rows", 0, 4, 1},
		{"negative cols", 4, -1, 1},
		{"zero spacing", 4, 4, 0},
		{"negative spacing", 4, 4, -0.1},
		{"nan spacing", 4, 4, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows, tt.cols, tt.spacing)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestIndexCoordRoundTrip(t *testing.T) {
	g, err := New(3, 5, 1)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	if g.Len() != 15 {
		t.Errorf("expected 15 cells, got %d", g.Len())
	}
	for i := 0; i < g.Len(); i++ {
		col, row := g.Coord(i)
		if g.Index(col, row) != i {
			t.Errorf("cell %d: coord (%d,%d) maps back to %d", i, col, row, g.Index(col, row))
		}
	}
}

func TestPosition_Centred(t *testing.T) {
	g, _ := Square(4, 0.2)

	first := g.Position(0)
	last := g.Position(g.Len() - 1)

	if math.Abs(first.X+last.X) > 1e-12 || math.Abs(first.Z+last.Z) > 1e-12 {
		t.Errorf("expected symmetric corners, got %+v and %+v", first, last)
	}
	if math.Abs(first.X+0.3) > 1e-12 {
		t.Errorf("expected first x -0.3, got %f", first.X)
	}
	if first.Y != 0 {
		t.Errorf("expected y 0, got %f", first.Y)
	}

	p := g.Position(g.Index(1, 2))
	if math.Abs(p.X-(-0.1)) > 1e-12 || math.Abs(p.Z-0.1) > 1e-12 {
		t.Errorf("expected (-0.1, 0.1), got (%f, %f)", p.X, p.Z)
	}
}

func TestContainsAndNormalized(t *testing.T) {
	g, _ := Square(3, 1)
	if g.Contains(-1, 0) || g.Contains(3, 0) || !g.Contains(2, 2) {
		t.Error("Contains bounds are wrong")
	}
	x, y := g.Normalized(g.Index(2, 1))
	if x != 1 || y != 0.5 {
		t.Errorf("expected (1, 0.5), got (%f, %f)", x, y)
	}

	single, _ := Square(1, 1)
	x, y = single.Normalized(0)
	if x != 0 || y != 0 {
		t.Errorf("expected single cell to normalize to 0, got (%f, %f)", x, y)
	}
}
