// Package transition implements the full-screen grid reveal.
//
// [Phases.Alpha] is the pure per-cell mask: cells fade in over the first
// phase with a seeded delay, stay opaque through the hold, then fade out
// with an independent seeded delay. [Controller] drives the progress value
// through those phases from a navigation trigger.
package transition

import (
	"fmt"

	"github.com/san-kum/mosaicfx/internal/dynamo"
	"github.com/san-kum/mosaicfx/internal/grid"
	"github.com/san-kum/mosaicfx/internal/seedfield"
)

// Phases partitions progress in [0,1] into appear [0,T1], hold (T1,T2] and
// disappear (T2,1]. Per-cell delays are drawn from [0, MaxJitter) and each
// cell fades over Spread of its phase.
type Phases struct {
	T1        float64 `yaml:"t1"`
	T2        float64 `yaml:"t2"`
	MaxJitter float64 `yaml:"max_jitter"`
	Spread    float64 `yaml:"spread"`
}

func DefaultPhases() Phases {
	return Phases{T1: 0.4, T2: 0.6, MaxJitter: 0.5, Spread: 0.3}
}

// Validate also requires MaxJitter+Spread <= 1 so every cell is fully
// opaque at T1 and fully clear at 1.
func (p Phases) Validate() error {
	if !dynamo.Finite(p.T1, p.T2, p.MaxJitter, p.Spread) {
		return fmt.Errorf("phases: %w", dynamo.ErrInvalidState)
	}
	switch {
	case p.T1 <= 0 || p.T1 >= 1:
		return dynamo.Bounds("t1", p.T1)
	case p.T2 <= p.T1 || p.T2 >= 1:
		return dynamo.Bounds("t2", p.T2)
	case p.MaxJitter < 0:
		return dynamo.Bounds("max_jitter", p.MaxJitter)
	case p.Spread <= 0:
		return dynamo.Bounds("spread", p.Spread)
	case p.MaxJitter+p.Spread > 1:
		return dynamo.Bounds("max_jitter+spread", p.MaxJitter+p.Spread)
	}
	return nil
}

func (p Phases) AppearDelay(x, y int, seed float64) float64 {
	return seedfield.Hash(x, y, seed) * p.MaxJitter
}

func (p Phases) DisappearDelay(x, y int, seed float64) float64 {
	return seedfield.Hash(x, y, seed) * p.MaxJitter
}

// Alpha is the opacity of cell (x, y) at progress. Pure.
func (p Phases) Alpha(x, y int, progress, appearSeed, disappearSeed float64) float64 {
	switch {
	case progress <= 0:
		return 0
	case progress <= p.T1:
		d := p.AppearDelay(x, y, appearSeed)
		return Smoothstep(d, d+p.Spread, progress/p.T1)
	case progress <= p.T2:
		return 1
	default:
		if progress > 1 {
			progress = 1
		}
		d := p.DisappearDelay(x, y, disappearSeed)
		return 1 - Smoothstep(d, d+p.Spread, (progress-p.T2)/(1-p.T2))
	}
}

// Mask evaluates Alpha for every cell of g in row-major order into dst,
// which is grown as needed.
func (p Phases) Mask(dst []float64, g grid.Grid, s State) []float64 {
	n := g.Len()
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := range dst {
		x, y := g.Coord(i)
		dst[i] = p.Alpha(x, y, s.Progress, s.AppearSeed, s.DisappearSeed)
	}
	return dst
}

func Smoothstep(e0, e1, x float64) float64 {
	t := (x - e0) / (e1 - e0)
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
