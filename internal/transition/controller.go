package transition

import (
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/mosaicfx/internal/anim"
	"github.com/san-kum/mosaicfx/internal/dynamo"
)

type Phase int

const (
	Idle Phase = iota
	Appearing
	Held
	Disappearing
)

func (p Phase) String() string {
	switch p {
	case Appearing:
		return "appearing"
	case Held:
		return "held"
	case Disappearing:
		return "disappearing"
	default:
		return "idle"
	}
}

// ParsePhase is the inverse of Phase.String; unknown names are Idle.
func ParsePhase(s string) Phase {
	for p := Idle; p <= Disappearing; p++ {
		if p.String() == s {
			return p
		}
	}
	return Idle
}

// seedRange bounds drawn seeds; any finite value works with the hash.
const seedRange = 1000

type Timing struct {
	AppearDuration    float64 `yaml:"appear_duration"`
	HoldDuration      float64 `yaml:"hold_duration"`
	DisappearDuration float64 `yaml:"disappear_duration"`
	Grace             float64 `yaml:"grace"`
	Seed              uint64  `yaml:"seed"`
}

func DefaultTiming() Timing {
	return Timing{
		AppearDuration:    1.0,
		HoldDuration:      0.5,
		DisappearDuration: 1.0,
		Grace:             0.1,
	}
}

func (t Timing) Validate() error {
	if !dynamo.Finite(t.AppearDuration, t.HoldDuration, t.DisappearDuration, t.Grace) {
		return fmt.Errorf("timing: %w", dynamo.ErrInvalidState)
	}
	switch {
	case t.AppearDuration <= 0:
		return dynamo.Bounds("appear_duration", t.AppearDuration)
	case t.HoldDuration <= 0:
		return dynamo.Bounds("hold_duration", t.HoldDuration)
	case t.DisappearDuration <= 0:
		return dynamo.Bounds("disappear_duration", t.DisappearDuration)
	case t.Grace < 0:
		return dynamo.Bounds("grace", t.Grace)
	}
	return nil
}

// Total is the wall time of one uninterrupted run.
func (t Timing) Total() float64 {
	return t.AppearDuration + t.HoldDuration + t.DisappearDuration + t.Grace
}

// State is the complete record of a run. Cancelling a run is overwriting it.
type State struct {
	Phase         Phase
	Progress      float64
	AppearSeed    float64
	DisappearSeed float64
	Palette       int
	Run           uint64
	Active        bool
	Elapsed       float64 // time spent in Phase
}

// Controller owns the progress timeline. It is driven by Tick from the
// render loop and is not safe for concurrent use.
type Controller struct {
	phases   Phases
	timing   Timing
	palettes int
	rng      *rand.Rand

	state      State
	last       uint64
	onCovered  []func(run uint64)
	onComplete []func(run uint64)

	AppearCurve    anim.Curve
	HoldCurve      anim.Curve
	DisappearCurve anim.Curve
}

func NewController(phases Phases, timing Timing, palettes int) (*Controller, error) {
	if err := phases.Validate(); err != nil {
		return nil, err
	}
	if err := timing.Validate(); err != nil {
		return nil, err
	}
	if palettes <= 0 {
		return nil, fmt.Errorf("palette count %d: %w", palettes, dynamo.ErrInvalidConfig)
	}
	return &Controller{
		phases:         phases,
		timing:         timing,
		palettes:       palettes,
		rng:            rand.New(rand.NewPCG(timing.Seed, timing.Seed^0x5851f42d4c957f2d)),
		state:          State{Palette: palettes - 1},
		AppearCurve:    anim.InQuad,
		HoldCurve:      anim.Linear,
		DisappearCurve: anim.OutQuad,
	}, nil
}

func (c *Controller) Phases() Phases { return c.phases }
func (c *Controller) Timing() Timing { return c.timing }
func (c *Controller) State() State   { return c.state }

// OnCovered registers fn to run once per run when the screen is fully
// covered, the moment to swap the content underneath.
func (c *Controller) OnCovered(fn func(run uint64)) {
	c.onCovered = append(c.onCovered, fn)
}

// OnComplete registers fn to run when a run returns to Idle.
func (c *Controller) OnComplete(fn func(run uint64)) {
	c.onComplete = append(c.onComplete, fn)
}

// Trigger starts a new run when counter differs from the last value seen.
// The initial value 0 never starts a run. A run in flight is cancelled.
func (c *Controller) Trigger(counter uint64) bool {
	if counter == c.last {
		return false
	}
	c.last = counter
	c.state = State{
		Phase:         Appearing,
		AppearSeed:    c.rng.Float64() * seedRange,
		DisappearSeed: c.rng.Float64() * seedRange,
		Palette:       (c.state.Palette + 1) % c.palettes,
		Run:           c.state.Run + 1,
		Active:        true,
	}
	return true
}

// Cancel drops the current run without firing callbacks.
func (c *Controller) Cancel() {
	c.state = State{Palette: c.state.Palette, Run: c.state.Run}
}

// Tick advances the timeline by dt. Time left over at a phase boundary
// carries into the next phase.
func (c *Controller) Tick(dt float64) {
	if !(dt > 0) {
		return
	}
	for dt > 0 && c.state.Phase != Idle {
		need := c.phaseLength(c.state.Phase) - c.state.Elapsed
		if dt < need {
			c.state.Elapsed += dt
			c.state.Progress = c.progress()
			return
		}
		dt -= need
		c.advance()
	}
}

func (c *Controller) phaseLength(p Phase) float64 {
	switch p {
	case Appearing:
		return c.timing.AppearDuration
	case Held:
		return c.timing.HoldDuration
	case Disappearing:
		return c.timing.DisappearDuration + c.timing.Grace
	}
	return 0
}

func (c *Controller) progress() float64 {
	s, t1, t2 := c.state, c.phases.T1, c.phases.T2
	switch s.Phase {
	case Appearing:
		return t1 * c.AppearCurve(s.Elapsed/c.timing.AppearDuration)
	case Held:
		return t1 + (t2-t1)*c.HoldCurve(s.Elapsed/c.timing.HoldDuration)
	case Disappearing:
		if s.Elapsed >= c.timing.DisappearDuration {
			return 1
		}
		return t2 + (1-t2)*c.DisappearCurve(s.Elapsed/c.timing.DisappearDuration)
	}
	return 0
}

// advance moves to the next phase and fires that boundary's callbacks.
// Callbacks may Trigger; the loop in Tick then continues on the new run.
func (c *Controller) advance() {
	run := c.state.Run
	c.state.Elapsed = 0
	switch c.state.Phase {
	case Appearing:
		c.state.Phase, c.state.Progress = Held, c.phases.T1
		for _, fn := range c.onCovered {
			fn(run)
		}
	case Held:
		c.state.Phase, c.state.Progress = Disappearing, c.phases.T2
	case Disappearing:
		c.state.Phase, c.state.Progress, c.state.Active = Idle, 0, false
		for _, fn := range c.onComplete {
			fn(run)
		}
	}
}
