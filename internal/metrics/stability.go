package metrics

import (
	"math"

	"github.com/san-kum/mosaicfx/internal/dynamo"
)

// Stability is the fraction of observations where every height stayed
// finite and within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f dynamo.Field, t float64) {
	hf, ok := f.(dynamo.HeightField)
	if !ok {
		return
	}
	s.samples++
	h := hf.Heights()
	if !h.IsValid() || h.MaxAbs() > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Peak is the largest absolute height seen.
type Peak struct {
	name string
	peak float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak_height"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(f dynamo.Field, t float64) {
	if hf, ok := f.(dynamo.HeightField); ok {
		p.peak = max(p.peak, hf.Heights().MaxAbs())
	}
}

func (p *Peak) Value() float64 { return p.peak }
func (p *Peak) Reset()         { p.peak = 0 }

// SettleTime is the last time any height strayed more than threshold from the
// field's mean, the time after which the surface stayed flat. The mean itself
// may rest away from zero after impulses.
type SettleTime struct {
	name      string
	threshold float64
	last      float64
}

func NewSettleTime(threshold float64) *SettleTime {
	return &SettleTime{name: "settle_time", threshold: threshold}
}

func (s *SettleTime) Name() string { return s.name }

func (s *SettleTime) Observe(f dynamo.Field, t float64) {
	hf, ok := f.(dynamo.HeightField)
	if !ok {
		return
	}
	h := hf.Heights()
	if len(h) == 0 {
		return
	}
	mean := 0.0
	for _, v := range h {
		mean += v
	}
	mean /= float64(len(h))
	for _, v := range h {
		if math.Abs(v-mean) > s.threshold {
			s.last = t
			return
		}
	}
}

func (s *SettleTime) Value() float64 { return s.last }
func (s *SettleTime) Reset()         { s.last = 0 }

// All returns the default metric set for a wave run.
func All(threshold float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewStability(threshold),
		NewPeak(),
		NewSettleTime(threshold / 20),
	}
}
