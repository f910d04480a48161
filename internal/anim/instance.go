package anim

import (
	"fmt"

	"github.com/san-kum/mosaicfx/internal/dynamo"
	"github.com/san-kum/mosaicfx/internal/grid"
	"github.com/san-kum/mosaicfx/internal/physics"
	"github.com/san-kum/mosaicfx/internal/sampler"
)

// Stride is the number of float32 values per instance in Buffer.
const Stride = 7

// Transform is the per-instance record handed to a renderer.
type Transform struct {
	X, Y, Z float32
	Scale   float32
	R, G, B float32
}

// Instances composes the build animation and the wave field into one
// contiguous transform array, recomputed every tick.
type Instances struct {
	Amplitude       float64
	ImpulseStrength float64

	grid    grid.Grid
	build   *Build
	wave    *physics.WaveField
	base    []grid.Vec3
	out     []Transform
	buf     []float32
	pending []int
	elapsed float64
	built   bool
}

func NewInstances(g grid.Grid, build *Build, wave *physics.WaveField, amplitude, impulse float64) (*Instances, error) {
	n := g.Len()
	if build == nil || wave == nil || build.Len() != n || wave.Len() != n {
		return nil, fmt.Errorf("instances for %s: build and wave must cover the grid: %w", g, dynamo.ErrInvalidConfig)
	}
	if !dynamo.Finite(amplitude, impulse) {
		return nil, fmt.Errorf("instances: %w", dynamo.ErrInvalidState)
	}
	in := &Instances{
		Amplitude:       amplitude,
		ImpulseStrength: impulse,
		grid:            g,
		build:           build,
		wave:            wave,
		base:            make([]grid.Vec3, n),
		out:             make([]Transform, n),
	}
	for i := range in.base {
		in.base[i] = g.Position(i)
	}
	in.SetColors(nil)
	in.Update(0)
	return in, nil
}

func (in *Instances) Grid() grid.Grid          { return in.grid }
func (in *Instances) Wave() *physics.WaveField { return in.wave }
func (in *Instances) Build() *Build            { return in.build }
func (in *Instances) Elapsed() float64         { return in.elapsed }
func (in *Instances) Transforms() []Transform  { return in.out }
func (in *Instances) BuildDone() bool          { return in.built }

// SetColors writes per-cell colours. A field that does not cover the grid is
// replaced by the coordinate fallback.
func (in *Instances) SetColors(f sampler.ColorField) {
	f = f.OrFallback(in.grid.Rows(), in.grid.Cols())
	for i, c := range f {
		in.out[i].R = float32(c.R)
		in.out[i].G = float32(c.G)
		in.out[i].B = float32(c.B)
	}
}

// Hover queues an impulse at cell i for the next tick.
func (in *Instances) Hover(i int) {
	if i < 0 || i >= len(in.out) {
		return
	}
	in.pending = append(in.pending, i)
}

// Tick drains queued impulses, advances the wave and recomputes transforms.
func (in *Instances) Tick(dt float64) {
	if dt > 0 {
		in.elapsed += dt
	}
	for _, i := range in.pending {
		x, y := in.grid.Coord(i)
		in.wave.ApplyImpulse(x, y, in.ImpulseStrength)
	}
	in.pending = in.pending[:0]
	in.wave.Step(dt)
	in.Update(in.elapsed)
}

// Update recomputes every transform for elapsed time t without stepping.
func (in *Instances) Update(t float64) {
	if !in.built && in.build.Done(t) {
		in.built = true
	}
	h := in.wave.Height
	for i := range in.out {
		y, s := 0.0, 1.0
		if !in.built {
			y = in.build.HeightAt(i, t)
			s = in.build.ScaleAt(i, t)
		}
		if i < len(h) {
			y += h[i] * in.Amplitude
		}
		p := in.base[i]
		o := &in.out[i]
		o.X, o.Y, o.Z = float32(p.X), float32(y), float32(p.Z)
		o.Scale = float32(s)
	}
}

// Buffer flattens the transforms into Stride floats per instance. The slice
// is reused between calls.
func (in *Instances) Buffer() []float32 {
	if cap(in.buf) < len(in.out)*Stride {
		in.buf = make([]float32, len(in.out)*Stride)
	}
	in.buf = in.buf[:len(in.out)*Stride]
	for i, o := range in.out {
		j := i * Stride
		in.buf[j+0] = o.X
		in.buf[j+1] = o.Y
		in.buf[j+2] = o.Z
		in.buf[j+3] = o.Scale
		in.buf[j+4] = o.R
		in.buf[j+5] = o.G
		in.buf[j+6] = o.B
	}
	return in.buf
}

// Restart replays the build from t=0 and calms the wave.
func (in *Instances) Restart() {
	in.elapsed = 0
	in.built = false
	in.pending = in.pending[:0]
	in.wave.Reset()
	in.Update(0)
}
