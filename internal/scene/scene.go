// Package scene wires the mosaic together: sampled colours, the build and
// wave animation, and the transition overlay. A Scene is advanced by a
// single Tick per frame; pointer and trigger events may arrive from other
// goroutines and are applied at the next tick.
package scene

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/san-kum/mosaicfx/internal/anim"
	"github.com/san-kum/mosaicfx/internal/config"
	"github.com/san-kum/mosaicfx/internal/dynamo"
	"github.com/san-kum/mosaicfx/internal/grid"
	"github.com/san-kum/mosaicfx/internal/metrics"
	"github.com/san-kum/mosaicfx/internal/physics"
	"github.com/san-kum/mosaicfx/internal/sampler"
	"github.com/san-kum/mosaicfx/internal/transition"
)

// PatternSize is the texture resolution used for the transition pattern.
const PatternSize = 64

type Scene struct {
	cfg      *config.Config
	grid     grid.Grid
	wave     *physics.WaveField
	build    *anim.Build
	inst     *anim.Instances
	ctrl     *transition.Controller
	palettes []transition.Palette
	shading  transition.Shading
	metrics  []dynamo.Metric
	logger   *log.Logger

	colors        sampler.ColorField
	colorLoader   *sampler.Loader
	patternLoader *sampler.Loader

	mask      []float64
	time      float64
	destroyed bool

	mu      sync.Mutex
	hovers  []int
	trigger uint64
	pending bool
}

// New builds a scene from cfg. Colours start on the fallback field and the
// pattern on the procedural stud texture until Load replaces them.
func New(cfg *config.Config, logger *log.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	g, err := cfg.MakeGrid()
	if err != nil {
		return nil, err
	}
	wave, err := physics.NewWaveField(g, cfg.Wave)
	if err != nil {
		return nil, err
	}
	build, err := anim.NewBuild(g, cfg.Build)
	if err != nil {
		return nil, err
	}
	inst, err := anim.NewInstances(g, build, wave, cfg.WaveAmplitude(), cfg.ImpulseStrength)
	if err != nil {
		return nil, err
	}
	palettes, err := cfg.PaletteSet()
	if err != nil {
		return nil, err
	}
	ctrl, err := transition.NewController(cfg.Phases, cfg.Timing, len(palettes))
	if err != nil {
		return nil, err
	}
	pattern, err := sampler.StudPattern(PatternSize)
	if err != nil {
		return nil, fmt.Errorf("stud pattern: %w", err)
	}

	s := &Scene{
		cfg:      cfg,
		grid:     g,
		wave:     wave,
		build:    build,
		inst:     inst,
		ctrl:     ctrl,
		palettes: palettes,
		shading:  transition.DefaultShading(pattern),
		metrics:  metrics.All(1),
		logger:   logger,
		colors:   sampler.Fallback(g.Rows(), g.Cols()),
	}
	s.mask = cfg.Phases.Mask(nil, g, ctrl.State())
	return s, nil
}

// Load starts the configured image and pattern loads in the background.
// Empty sources keep the fallbacks.
func (s *Scene) Load(ctx context.Context) {
	if s.cfg.Image != "" {
		s.colorLoader = sampler.NewLoader(s.cfg.LoadTimeout)
		s.colorLoader.Start(ctx, sampler.ParseSource(s.cfg.Image), s.grid.Cols())
	}
	if s.cfg.Pattern != "" {
		s.patternLoader = sampler.NewLoader(s.cfg.LoadTimeout)
		s.patternLoader.Start(ctx, sampler.ParseSource(s.cfg.Pattern), PatternSize)
	}
}

// SetColors replaces the colour field directly, bypassing any load.
func (s *Scene) SetColors(f sampler.ColorField) {
	if s.colorLoader != nil {
		s.colorLoader.Stop()
		s.colorLoader = nil
	}
	s.colors = f.OrFallback(s.grid.Rows(), s.grid.Cols())
	s.inst.SetColors(s.colors)
}

// SetPattern replaces the transition pattern texture.
func (s *Scene) SetPattern(t sampler.Texture) {
	if s.patternLoader != nil {
		s.patternLoader.Stop()
		s.patternLoader = nil
	}
	s.shading.Pattern = t
}

// Hover queues a ripple at (col, row). Safe for concurrent use.
func (s *Scene) Hover(col, row int) {
	if !s.grid.Contains(col, row) {
		return
	}
	s.mu.Lock()
	s.hovers = append(s.hovers, s.grid.Index(col, row))
	s.mu.Unlock()
}

// Trigger records a navigation counter to hand to the transition controller
// at the next tick. Safe for concurrent use.
func (s *Scene) Trigger(counter uint64) {
	s.mu.Lock()
	s.trigger, s.pending = counter, true
	s.mu.Unlock()
}

// Tick advances the whole scene by dt seconds.
func (s *Scene) Tick(dt float64) {
	if s.destroyed {
		return
	}
	s.mu.Lock()
	hovers := s.hovers
	s.hovers = nil
	trigger, pending := s.trigger, s.pending
	s.pending = false
	s.mu.Unlock()

	s.poll()

	for _, i := range hovers {
		s.inst.Hover(i)
	}
	if pending {
		s.ctrl.Trigger(trigger)
	}

	s.inst.Tick(dt)
	s.ctrl.Tick(dt)
	s.mask = s.cfg.Phases.Mask(s.mask, s.grid, s.ctrl.State())

	if dt > 0 {
		s.time += dt
	}
	for _, m := range s.metrics {
		m.Observe(s.wave, s.time)
	}
}

func (s *Scene) poll() {
	if s.colorLoader != nil {
		field, state, err := s.colorLoader.Poll()
		switch state {
		case sampler.Ready:
			s.colors = field.OrFallback(s.grid.Rows(), s.grid.Cols())
			s.inst.SetColors(s.colors)
			s.logger.Printf("image %s loaded", s.cfg.Image)
			s.colorLoader = nil
		case sampler.Failed:
			s.logger.Printf("image %s: %v; using fallback colours", s.cfg.Image, err)
			s.colorLoader = nil
		}
	}
	if s.patternLoader != nil {
		field, state, err := s.patternLoader.Poll()
		switch state {
		case sampler.Ready:
			s.shading.Pattern = sampler.NewTexture(PatternSize, PatternSize, field)
			s.logger.Printf("pattern %s loaded", s.cfg.Pattern)
			s.patternLoader = nil
		case sampler.Failed:
			s.logger.Printf("pattern %s: %v; using stud pattern", s.cfg.Pattern, err)
			s.patternLoader = nil
		}
	}
}

// Loading reports whether any background load is still outstanding.
func (s *Scene) Loading() bool {
	return s.colorLoader != nil || s.patternLoader != nil
}

// Wait blocks until outstanding loads settle, then applies them.
func (s *Scene) Wait(ctx context.Context) error {
	for _, l := range []*sampler.Loader{s.colorLoader, s.patternLoader} {
		if l == nil {
			continue
		}
		if _, err := l.Wait(ctx); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
	}
	s.poll()
	return nil
}

// Restart replays the build animation and calms the wave.
func (s *Scene) Restart() {
	s.inst.Restart()
	s.time = 0
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Destroy abandons loads and releases the simulation buffers. Tick is a
// no-op afterwards.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	for _, l := range []*sampler.Loader{s.colorLoader, s.patternLoader} {
		if l != nil {
			l.Stop()
		}
	}
	s.colorLoader, s.patternLoader = nil, nil
	s.ctrl.Cancel()
	s.wave.Destroy()
}

func (s *Scene) Config() *config.Config             { return s.cfg }
func (s *Scene) Grid() grid.Grid                    { return s.grid }
func (s *Scene) Wave() *physics.WaveField           { return s.wave }
func (s *Scene) Instances() *anim.Instances         { return s.inst }
func (s *Scene) Controller() *transition.Controller { return s.ctrl }
func (s *Scene) Colors() sampler.ColorField         { return s.colors }
func (s *Scene) Shading() transition.Shading        { return s.shading }
func (s *Scene) Metrics() []dynamo.Metric           { return s.metrics }
func (s *Scene) Time() float64                      { return s.time }
func (s *Scene) Destroyed() bool                    { return s.destroyed }
func (s *Scene) Transition() transition.State       { return s.ctrl.State() }
func (s *Scene) Mask() []float64                    { return s.mask }
func (s *Scene) Palettes() []transition.Palette     { return s.palettes }

// Palette is the palette of the current transition run.
func (s *Scene) Palette() transition.Palette {
	return s.palettes[s.ctrl.State().Palette]
}

// Alpha is the transition opacity of cell (col, row) this frame.
func (s *Scene) Alpha(col, row int) float64 {
	if !s.grid.Contains(col, row) {
		return 0
	}
	return s.mask[s.grid.Index(col, row)]
}

// OverlayColor shades the transition overlay at local (u, v) of a cell.
func (s *Scene) OverlayColor(col, row int, u, v float64) sampler.RGB {
	return s.shading.Shade(col, row, u, v, s.ctrl.State().AppearSeed, s.Palette())
}
