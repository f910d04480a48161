package metrics

import (
	"math"

	"github.com/san-kum/mosaicfx/internal/dynamo"
)

// energyOf reports the field's energy when it has one.
func energyOf(f dynamo.Field) (float64, bool) {
	h, ok := f.(dynamo.Hamiltonian)
	if !ok {
		return 0, false
	}
	return h.Energy(), true
}

// Energy averages the wave energy across observations.
type Energy struct {
	sum float64
	n   int
}

func NewEnergy() *Energy { return &Energy{} }

func (*Energy) Name() string { return "energy" }

func (m *Energy) Observe(f dynamo.Field, _ float64) {
	if e, ok := energyOf(f); ok {
		m.sum += e
		m.n++
	}
}

func (m *Energy) Value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

func (m *Energy) Reset() { *m = Energy{} }

// EnergyDrift tracks how far the energy strays from its first observed
// value, as a fraction of it. A ripple that dies out drifts toward 1; an
// undamped lattice should stay near 0.
type EnergyDrift struct {
	first, last float64
	worst       float64
	seen        bool
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (*EnergyDrift) Name() string { return "energy_drift" }

func (m *EnergyDrift) Observe(f dynamo.Field, _ float64) {
	e, ok := energyOf(f)
	if !ok {
		return
	}
	if !m.seen {
		m.first, m.seen = e, true
	}
	m.last = e
	if m.first == 0 {
		return
	}
	if d := math.Abs(e/m.first - 1); d > m.worst {
		m.worst = d
	}
}

func (m *EnergyDrift) Value() float64 { return m.worst }

// Ratio is the latest energy over the first; 1 until a nonzero energy was seen.
func (m *EnergyDrift) Ratio() float64 {
	if m.first == 0 {
		return 1
	}
	return m.last / m.first
}

func (m *EnergyDrift) Reset() { *m = EnergyDrift{} }
