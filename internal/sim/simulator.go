package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/mosaicfx/internal/dynamo"
	"github.com/san-kum/mosaicfx/internal/scene"
)

// Simulator drives a scene headlessly with a fixed step and scripted input.
type Simulator struct {
	scene     *scene.Scene
	observers []Observer
	covered   []uint64
	completed []uint64
}

func New(s *scene.Scene) *Simulator {
	sim := &Simulator{scene: s}
	ctrl := s.Controller()
	ctrl.OnCovered(func(run uint64) { sim.covered = append(sim.covered, run) })
	ctrl.OnComplete(func(run uint64) { sim.completed = append(sim.completed, run) })
	return sim
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Scene() *scene.Scene { return s.scene }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Samples: make([]Sample, 0, steps),
		Metrics: make(map[string]float64),
	}

	events := append([]Event(nil), cfg.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	s.covered, s.completed = nil, nil
	defer func() { result.Covered, result.Completed = s.covered, s.completed }()

	s.scene.Restart()
	t, next := 0.0, 0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for next < len(events) && events[next].At <= t {
			s.deliver(events[next])
			next++
		}

		s.scene.Tick(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !s.scene.Wave().Valid() {
			return result, fmt.Errorf("step %d at t=%.4f: %w", i, t, dynamo.ErrInvalidState)
		}

		sample := s.sample(t)
		result.Samples = append(result.Samples, sample)
		for _, o := range s.observers {
			o.OnSample(sample)
		}
	}

	for _, m := range s.scene.Metrics() {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulator) deliver(e Event) {
	switch e.Kind {
	case Hover:
		s.scene.Hover(e.Col, e.Row)
	case Trigger:
		s.scene.Trigger(e.Counter)
	}
}

func (s *Simulator) sample(t float64) Sample {
	w := s.scene.Wave()
	tr := s.scene.Transition()
	return Sample{
		Time:     t,
		Energy:   w.Energy(),
		Peak:     w.Heights().MaxAbs(),
		Progress: tr.Progress,
		Phase:    tr.Phase,
		Run:      tr.Run,
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return dynamo.Bounds("dt", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return dynamo.Bounds("duration", cfg.Duration)
	}
	return nil
}

// CenterRipple is a hover at the middle of an n×n grid at time at.
func CenterRipple(n int, at float64) Event {
	return Event{At: at, Kind: Hover, Col: n / 2, Row: n / 2}
}
