package sim

import "github.com/san-kum/mosaicfx/internal/transition"

type EventKind int

const (
	Hover EventKind = iota
	Trigger
)

func (k EventKind) String() string {
	if k == Trigger {
		return "trigger"
	}
	return "hover"
}

// Event is a scripted input delivered once the run clock reaches At.
type Event struct {
	At      float64
	Kind    EventKind
	Col     int
	Row     int
	Counter uint64
}

type Config struct {
	Dt            float64
	Duration      float64
	Events        []Event
	ValidateState bool
}

// Sample is the scene summary recorded after each tick.
type Sample struct {
	Time     float64          `json:"time"`
	Energy   float64          `json:"energy"`
	Peak     float64          `json:"peak"`
	Progress float64          `json:"progress"`
	Phase    transition.Phase `json:"phase"`
	Run      uint64           `json:"run"`
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Covered    []uint64
	Completed  []uint64
}

// Observer sees every sample as it is recorded.
type Observer interface {
	OnSample(s Sample)
}

type ObserverFunc func(Sample)

func (f ObserverFunc) OnSample(s Sample) { f(s) }

// Series extracts one column of the samples.
func (r *Result) Series(pick func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = pick(s)
	}
	return out
}
