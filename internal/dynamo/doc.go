// Package dynamo provides core primitives shared by the grid simulations.
//
// The package defines the small set of interfaces and types every
// grid-indexed behaviour is built on:
//
//   - [State]: flat per-cell value vector
//   - [Field]: a grid simulation advanced by a fixed-rule tick
//   - [Hamiltonian]: fields that can report their total energy
//   - [Configurable]: runtime parameter inspection and adjustment
//   - [Metric]: observers sampled once per tick
//
// # Example
//
//	wave, _ := physics.NewWaveField(g, physics.DefaultWaveParams())
//	drift := metrics.NewEnergyDrift()
//	for i := 0; i < 120; i++ {
//	    wave.Step(1.0 / 60)
//	    drift.Observe(wave, float64(i)/60)
//	}
//
// # Thread Safety
//
// Fields are NOT thread-safe. All mutation happens inside a single
// cooperative tick; see the scene package.
package dynamo
