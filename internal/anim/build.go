package anim

import (
	"fmt"

	"github.com/san-kum/mosaicfx/internal/dynamo"
	"github.com/san-kum/mosaicfx/internal/grid"
	"github.com/san-kum/mosaicfx/internal/seedfield"
)

type BuildParams struct {
	FallDuration float64 `yaml:"fall_duration"`
	RowSweep     float64 `yaml:"row_sweep"`
	MaxJitter    float64 `yaml:"max_jitter"`
	BaseHeight   float64 `yaml:"base_height"`
	Scatter      float64 `yaml:"scatter"`
	StartScale   float64 `yaml:"start_scale"`
	Seed         float64 `yaml:"seed"`
}

func DefaultBuildParams() BuildParams {
	return BuildParams{
		FallDuration: 1.2,
		RowSweep:     0.9,
		MaxJitter:    0.25,
		BaseHeight:   0.9,
		Scatter:      1.0,
		StartScale:   0.88,
		Seed:         1,
	}
}

func (p BuildParams) Validate() error {
	if !dynamo.Finite(p.FallDuration, p.RowSweep, p.MaxJitter, p.BaseHeight, p.Scatter, p.StartScale, p.Seed) {
		return fmt.Errorf("build params: %w", dynamo.ErrInvalidState)
	}
	switch {
	case p.FallDuration <= 0:
		return dynamo.Bounds("fall_duration", p.FallDuration)
	case p.RowSweep < 0:
		return dynamo.Bounds("row_sweep", p.RowSweep)
	case p.MaxJitter < 0:
		return dynamo.Bounds("max_jitter", p.MaxJitter)
	case p.Scatter < 0:
		return dynamo.Bounds("scatter", p.Scatter)
	case p.StartScale <= 0:
		return dynamo.Bounds("start_scale", p.StartScale)
	}
	return nil
}

// Build is the one-shot fall-into-place animation. Every cell drops from its
// own start height after its own delay and lands with a small overshoot.
type Build struct {
	p        BuildParams
	delay    []float64
	start    []float64
	doneTime float64
}

func NewBuild(g grid.Grid, p BuildParams) (*Build, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b := &Build{
		p:     p,
		delay: seedfield.Delays(g, p.Seed, p.RowSweep, p.MaxJitter),
		start: seedfield.StartHeights(g, p.Seed, p.BaseHeight, p.Scatter),
	}
	maxDelay := 0.0
	for _, d := range b.delay {
		maxDelay = max(maxDelay, d)
	}
	b.doneTime = maxDelay + p.FallDuration
	return b, nil
}

func (b *Build) Len() int                  { return len(b.delay) }
func (b *Build) Params() BuildParams       { return b.p }
func (b *Build) Delay(i int) float64       { return b.delay[i] }
func (b *Build) StartHeight(i int) float64 { return b.start[i] }
func (b *Build) DoneTime() float64         { return b.doneTime }
func (b *Build) Done(t float64) bool       { return t >= b.doneTime }

// Settled reports whether cell i has finished falling at time t.
func (b *Build) Settled(i int, t float64) bool {
	return t >= b.delay[i]+b.p.FallDuration
}

// Progress is the cell's local animation progress in [0,1].
func (b *Build) Progress(i int, t float64) float64 {
	if b.Settled(i, t) {
		return 1
	}
	return Clamp01((t - b.delay[i]) / b.p.FallDuration)
}

func (b *Build) HeightAt(i int, t float64) float64 {
	return Lerp(b.start[i], 0, OutBack(b.Progress(i, t)))
}

func (b *Build) ScaleAt(i int, t float64) float64 {
	p := b.Progress(i, t)
	if p >= 1 {
		return 1
	}
	return Lerp(b.p.StartScale, 1, OutCubic(p))
}
