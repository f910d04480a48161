package config

import "sort"

// Presets are complete configurations keyed by name.
var Presets = map[string]func() *Config{
	"calm": func() *Config {
		c := DefaultConfig()
		c.Wave.Spring, c.Wave.Damping = 20, 8
		c.ImpulseStrength = 0.8
		c.Build.FallDuration, c.Build.RowSweep = 1.8, 1.4
		c.Timing.AppearDuration, c.Timing.HoldDuration, c.Timing.DisappearDuration = 1.4, 0.8, 1.4
		return c
	},
	"lively": func() *Config {
		c := DefaultConfig()
		c.Wave.Spring, c.Wave.Damping = 60, 3.5
		c.Wave.ImpulseRadius = 3
		c.ImpulseStrength = 1.8
		c.Build.Scatter = 1.6
		return c
	},
	"snappy": func() *Config {
		c := DefaultConfig()
		c.Wave.Damping = 10
		c.Build.FallDuration, c.Build.RowSweep, c.Build.MaxJitter = 0.7, 0.5, 0.15
		c.Timing.AppearDuration, c.Timing.HoldDuration, c.Timing.DisappearDuration = 0.5, 0.2, 0.5
		c.Timing.Grace = 0.05
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
