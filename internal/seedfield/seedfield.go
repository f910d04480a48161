// Package seedfield produces deterministic per-cell pseudo-random values.
//
// Every value is a pure function of an integer cell coordinate, a numeric
// seed and a stream number. There is no ambient random state: callers that
// want a new pattern pass a new seed.
package seedfield

import (
	"math"

	"github.com/san-kum/mosaicfx/internal/grid"
)

// Streams select independent sequences for the same (x, y, seed).
const (
	StreamDelay uint64 = iota
	StreamHeight
	StreamTint
	StreamScatter
)

const (
	golden = 0x9e3779b97f4a7c15
	primeY = 0xc2b2ae3d27d4eb4f
	primeS = 0x165667b19e3779f9
)

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

func seedBits(seed float64) uint64 {
	if seed == 0 {
		return 0 // -0 and +0 hash alike
	}
	return math.Float64bits(seed)
}

// Hash returns a value in [0,1) for the cell (x, y) under seed.
func Hash(x, y int, seed float64) float64 {
	return Draw(x, y, seed, StreamDelay)
}

// Draw is Hash on an explicit stream. Stream 0 equals Hash.
func Draw(x, y int, seed float64, stream uint64) float64 {
	h := mix(uint64(int64(x)) + golden)
	h = mix(h ^ (uint64(int64(y)) * primeY))
	h = mix(h ^ (seedBits(seed) * primeS))
	h = mix(h + stream*golden)
	// top 53 bits fill the float64 mantissa exactly, so the result is < 1
	return float64(h>>11) / (1 << 53)
}

// Delays builds the per-cell stagger table: a deterministic sweep across rows
// plus a jitter in [0, maxJitter).
func Delays(g grid.Grid, seed, rowSweep, maxJitter float64) []float64 {
	out := make([]float64, g.Len())
	rows := float64(g.Rows())
	for i := range out {
		col, row := g.Coord(i)
		out[i] = rowSweep*float64(row)/rows + Draw(col, row, seed, StreamDelay)*maxJitter
	}
	return out
}

// StartHeights returns base + [0, scatter) per cell.
func StartHeights(g grid.Grid, seed, base, scatter float64) []float64 {
	out := make([]float64, g.Len())
	for i := range out {
		col, row := g.Coord(i)
		out[i] = base + Draw(col, row, seed, StreamHeight)*scatter
	}
	return out
}
