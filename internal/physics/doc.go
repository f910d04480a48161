// Package physics provides the wave-height field behind the brick mosaic.
//
// [WaveField] is a damped spring lattice over a [grid.Grid]: each cell is
// coupled to its four neighbours through a discrete Laplacian and advanced
// with semi-implicit Euler at a clamped timestep. Pointer input enters as
// [WaveField.ApplyImpulse].
//
// WaveField implements [dynamo.Hamiltonian] and [dynamo.Configurable]:
//
//	wave, _ := physics.NewWaveField(g, physics.DefaultWaveParams())
//	wave.ApplyImpulse(4, 4, 1.25)
//	for i := 0; i < 60; i++ {
//	    wave.Step(1.0 / 60)
//	}
//	energy := wave.Energy()
package physics
