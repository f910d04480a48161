package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mosaicfx/internal/anim"
	"github.com/san-kum/mosaicfx/internal/dynamo"
	"github.com/san-kum/mosaicfx/internal/grid"
	"github.com/san-kum/mosaicfx/internal/physics"
	"github.com/san-kum/mosaicfx/internal/transition"
)

const (
	DefaultSize        = 32
	DefaultBrickSize   = 0.18
	DefaultGap         = 0.012
	DefaultImpulse     = 1.25
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 6.0
	DefaultLoadTimeout = 10 * time.Second

	// amplitudeRatio scales wave height to brick size when Amplitude is 0.
	amplitudeRatio = 0.55
)

type Config struct {
	Grid            GridConfig          `yaml:"grid"`
	Wave            physics.WaveParams  `yaml:"wave"`
	Build           anim.BuildParams    `yaml:"build"`
	Amplitude       float64             `yaml:"amplitude"`
	ImpulseStrength float64             `yaml:"impulse_strength"`
	Phases          transition.Phases   `yaml:"phases"`
	Timing          transition.Timing   `yaml:"timing"`
	Image           string              `yaml:"image"`
	Pattern         string              `yaml:"pattern"`
	LoadTimeout     time.Duration       `yaml:"load_timeout"`
	Dt              float64             `yaml:"dt"`
	Duration        float64             `yaml:"duration"`
	Palettes        map[string][]string `yaml:"palettes,omitempty"`
}

type GridConfig struct {
	Size      int     `yaml:"size"`
	BrickSize float64 `yaml:"brick_size"`
	Gap       float64 `yaml:"gap"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Size:      DefaultSize,
			BrickSize: DefaultBrickSize,
			Gap:       DefaultGap,
		},
		Wave:            physics.DefaultWaveParams(),
		Build:           anim.DefaultBuildParams(),
		ImpulseStrength: DefaultImpulse,
		Phases:          transition.DefaultPhases(),
		Timing:          transition.DefaultTiming(),
		LoadTimeout:     DefaultLoadTimeout,
		Dt:              DefaultDt,
		Duration:        DefaultDuration,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Grid.Size <= 0:
		return fmt.Errorf("grid.size %d: %w", c.Grid.Size, dynamo.ErrInvalidConfig)
	case !(c.Grid.BrickSize > 0):
		return dynamo.Bounds("grid.brick_size", c.Grid.BrickSize)
	case !(c.Grid.Gap >= 0):
		return dynamo.Bounds("grid.gap", c.Grid.Gap)
	case !(c.Amplitude >= 0):
		return dynamo.Bounds("amplitude", c.Amplitude)
	case !(c.ImpulseStrength >= 0):
		return dynamo.Bounds("impulse_strength", c.ImpulseStrength)
	case !(c.Dt > 0):
		return dynamo.Bounds("dt", c.Dt)
	case !(c.Duration > 0):
		return dynamo.Bounds("duration", c.Duration)
	case c.LoadTimeout <= 0:
		return fmt.Errorf("load_timeout %s: %w", c.LoadTimeout, dynamo.ErrInvalidConfig)
	}
	if err := c.Wave.Validate(); err != nil {
		return fmt.Errorf("wave: %w", err)
	}
	if err := c.Build.Validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := c.Phases.Validate(); err != nil {
		return fmt.Errorf("phases: %w", err)
	}
	if err := c.Timing.Validate(); err != nil {
		return fmt.Errorf("timing: %w", err)
	}
	if _, err := c.PaletteSet(); err != nil {
		return err
	}
	return nil
}

// MakeGrid builds the square mosaic grid; cell spacing is brick plus gap.
func (c *Config) MakeGrid() (grid.Grid, error) {
	return grid.Square(c.Grid.Size, c.Grid.BrickSize+c.Grid.Gap)
}

// WaveAmplitude is Amplitude, or a height proportional to brick size when unset.
func (c *Config) WaveAmplitude() float64 {
	if c.Amplitude > 0 {
		return c.Amplitude
	}
	return c.Grid.BrickSize * amplitudeRatio
}

// PaletteSet returns the configured palettes in name order, or the built-in
// rotation when none are configured.
func (c *Config) PaletteSet() ([]transition.Palette, error) {
	if len(c.Palettes) == 0 {
		return transition.Palettes(), nil
	}
	names := make([]string, 0, len(c.Palettes))
	for name := range c.Palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]transition.Palette, 0, len(names))
	for _, name := range names {
		p, err := transition.NewPalette(name, c.Palettes[name]...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
		}
		if len(p.Colors) == 0 {
			return nil, fmt.Errorf("palette %s is empty: %w", name, dynamo.ErrInvalidConfig)
		}
		out = append(out, p)
	}
	return out, nil
}
