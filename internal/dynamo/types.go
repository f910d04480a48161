package dynamo

import "math"

// State is a per-cell scalar buffer in grid index order, such as wave
// heights or velocities.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether no cell has gone NaN or infinite.
func (s State) IsValid() bool { return Finite(s...) }

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxAbs returns the largest magnitude in s.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// Zero clears s in place.
func (s State) Zero() { clear(s) }

// Finite reports whether every value is a finite number.
func Finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Field is anything advanced by the scene tick over a fixed cell count.
type Field interface {
	Step(dt float64)
	Len() int
}

type Hamiltonian interface {
	Energy() float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Metric accumulates a scalar summary of a Field across ticks.
type Metric interface {
	Name() string
	Observe(f Field, t float64)
	Value() float64
	Reset()
}

// HeightField is a Field whose per-cell heights can be observed.
type HeightField interface {
	Field
	Heights() State
}
