package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/mosaicfx/internal/dynamo"
	"github.com/san-kum/mosaicfx/internal/grid"
	"github.com/san-kum/mosaicfx/internal/seedfield"
)

// stabilityBound caps ω²dt² + 2·Damping·dt for the stiffest mode of the
// 4-neighbour Laplacian, ω² = 8·Spring. A damped semi-implicit Euler step
// has both roots inside the unit circle only below 4.
const stabilityBound = 4.0

// stiffness is the stability measure of p at its largest step.
func (p WaveParams) stiffness() float64 {
	return 8*p.Spring*p.MaxDt*p.MaxDt + 2*p.Damping*p.MaxDt
}

type WaveParams struct {
	Spring        float64 `yaml:"spring"`
	Damping       float64 `yaml:"damping"`
	MaxDt         float64 `yaml:"max_dt"`
	ImpulseRadius float64 `yaml:"impulse_radius"`
	Decay         float64 `yaml:"decay"`
	Limit         float64 `yaml:"limit"`
}

func DefaultWaveParams() WaveParams {
	return WaveParams{
		Spring:        35.0,
		Damping:       6.5,
		MaxDt:         1.0 / 30,
		ImpulseRadius: 2,
		Decay:         0.6,
	}
}

func (p WaveParams) Validate() error {
	if !dynamo.Finite(p.Spring, p.Damping, p.MaxDt, p.ImpulseRadius, p.Decay, p.Limit) {
		return fmt.Errorf("wave params: %w", dynamo.ErrInvalidState)
	}
	switch {
	case p.Spring <= 0:
		return dynamo.Bounds("spring", p.Spring)
	case p.Damping < 0:
		return dynamo.Bounds("damping", p.Damping)
	case p.MaxDt <= 0:
		return dynamo.Bounds("max_dt", p.MaxDt)
	case p.ImpulseRadius < 0:
		return dynamo.Bounds("impulse_radius", p.ImpulseRadius)
	case p.Decay <= 0:
		return dynamo.Bounds("decay", p.Decay)
	case p.Limit < 0:
		return dynamo.Bounds("limit", p.Limit)
	}
	if p.stiffness() >= stabilityBound {
		return fmt.Errorf("spring %g, damping %g with max_dt %g: %w", p.Spring, p.Damping, p.MaxDt, dynamo.ErrUnstable)
	}
	return nil
}

// WaveField is a spring-damper height field over a grid. Each cell is pulled
// toward its four neighbours; edges use a zero-gradient boundary.
type WaveField struct {
	WaveParams
	Height   dynamo.State
	Velocity dynamo.State

	grid      grid.Grid
	lap       []float64
	destroyed bool
}

func NewWaveField(g grid.Grid, p WaveParams) (*WaveField, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	w := &WaveField{WaveParams: p}
	w.Resize(g)
	return w, nil
}

func (w *WaveField) Grid() grid.Grid { return w.grid }
func (w *WaveField) Len() int        { return len(w.Height) }

// Heights exposes the live height buffer for observers.
func (w *WaveField) Heights() dynamo.State { return w.Height }

// Resize reallocates height and velocity together for a new grid shape.
func (w *WaveField) Resize(g grid.Grid) {
	n := g.Len()
	w.grid = g
	w.Height = make(dynamo.State, n)
	w.Velocity = make(dynamo.State, n)
	w.lap = make([]float64, n)
	w.destroyed = false
}

func (w *WaveField) Reset() {
	w.Height.Zero()
	w.Velocity.Zero()
}

// Destroy drops the buffers. Later calls are no-ops.
func (w *WaveField) Destroy() {
	w.Height, w.Velocity, w.lap = nil, nil, nil
	w.destroyed = true
}

// Step advances the field by dt, clamped to MaxDt.
func (w *WaveField) Step(dt float64) {
	if w.destroyed || !(dt > 0) {
		return
	}
	if dt > w.MaxDt {
		dt = w.MaxDt
	}

	rows, cols := w.grid.Rows(), w.grid.Cols()
	h, v := w.Height, w.Velocity
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := y*cols + x
			c := h[i]
			left, right, up, down := c, c, c, c
			if x > 0 {
				left = h[i-1]
			}
			if x < cols-1 {
				right = h[i+1]
			}
			if y > 0 {
				up = h[i-cols]
			}
			if y < rows-1 {
				down = h[i+cols]
			}
			w.lap[i] = left + right + up + down - 4*c
		}
	}

	for i := range v {
		v[i] += (w.lap[i]*w.Spring - v[i]*w.Damping) * dt
	}
	for i := range h {
		h[i] += v[i] * dt
	}

	if w.Limit > 0 {
		clampAbs(h, w.Limit)
		clampAbs(v, w.Limit)
	}
}

// ApplyImpulse injects strength into the velocity of every cell within
// ImpulseRadius of (cx, cy), weighted by a Gaussian falloff. Cells outside
// the grid are skipped.
func (w *WaveField) ApplyImpulse(cx, cy int, strength float64) {
	if w.destroyed || !dynamo.Finite(strength) {
		return
	}
	r := w.ImpulseRadius
	if r == 0 {
		if w.grid.Contains(cx, cy) {
			w.Velocity[w.grid.Index(cx, cy)] += strength
		}
		return
	}

	r2 := r * r
	reach := int(math.Ceil(r))
	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			x, y := cx+dx, cy+dy
			if !w.grid.Contains(x, y) {
				continue
			}
			d2 := float64(dx*dx + dy*dy)
			if d2 > r2 {
				continue
			}
			w.Velocity[w.grid.Index(x, y)] += strength * math.Exp(-d2/(r2*w.Decay))
		}
	}
}

// Scatter seeds the heights with a deterministic offset in [-amp/2, amp/2).
func (w *WaveField) Scatter(seed, amp float64) {
	for i := range w.Height {
		x, y := w.grid.Coord(i)
		w.Height[i] = (seedfield.Draw(x, y, seed, seedfield.StreamScatter) - 0.5) * amp
	}
}

// Energy is the kinetic term plus the spring potential over grid edges.
func (w *WaveField) Energy() float64 {
	rows, cols := w.grid.Rows(), w.grid.Cols()
	h := w.Height
	ke, pe := 0.0, 0.0
	for _, v := range w.Velocity {
		ke += 0.5 * v * v
	}
	for y := 0; y < rows && len(h) > 0; y++ {
		for x := 0; x < cols; x++ {
			i := y*cols + x
			if x < cols-1 {
				d := h[i+1] - h[i]
				pe += 0.5 * w.Spring * d * d
			}
			if y < rows-1 {
				d := h[i+cols] - h[i]
				pe += 0.5 * w.Spring * d * d
			}
		}
	}
	return ke + pe
}

func (w *WaveField) Valid() bool {
	return w.Height.IsValid() && w.Velocity.IsValid()
}

func (w *WaveField) GetParams() map[string]float64 {
	return map[string]float64{
		"spring":         w.Spring,
		"damping":        w.Damping,
		"max_dt":         w.MaxDt,
		"impulse_radius": w.ImpulseRadius,
		"decay":          w.Decay,
		"limit":          w.Limit,
	}
}

func (w *WaveField) SetParam(name string, v float64) error {
	p := w.WaveParams
	switch name {
	case "spring":
		p.Spring = v
	case "damping":
		p.Damping = v
	case "max_dt":
		p.MaxDt = v
	case "impulse_radius":
		p.ImpulseRadius = v
	case "decay":
		p.Decay = v
	case "limit":
		p.Limit = v
	default:
		return fmt.Errorf("%s: %w", name, dynamo.ErrUnknownParam)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	w.WaveParams = p
	return nil
}

func clampAbs(s []float64, limit float64) {
	for i, v := range s {
		if v > limit {
			s[i] = limit
		} else if v < -limit {
			s[i] = -limit
		}
	}
}
