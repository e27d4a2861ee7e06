// Package phi provides simulation constants derived from the golden ratio.
// No arbitrary magic numbers in the kernel — every threshold traces back to Φ
// or to an explicit physical transfer ratio.
package phi

import "math"

// Phi is the golden ratio.
const Phi = 1.6180339887498948

// HorizonFrequency is the resonant frequency of the world horizon.
// Souls tuned exactly to it accumulate no frequency entropy during
// atmospheric governance; every unit of deviation costs ten entropy.
const HorizonFrequency = Phi

// Emanation constants derived from powers of Phi.
var (
	// Agnosis (Φ⁻³): noise floor, the base rate of imperfection.
	Agnosis = math.Pow(Phi, -3) // 0.23606...

	// Psyche (Φ⁻²): the threshold of meaningful resonance.
	Psyche = math.Pow(Phi, -2) // 0.38197...

	// Matter (Φ⁻¹): the fraction that persists through transformation.
	Matter = math.Pow(Phi, -1) // 0.61803...

	// Being (Φ¹): growth factor of living wave systems.
	Being = Phi

	// Totality (Φ³): the ceiling beyond which systems collapse.
	Totality = math.Pow(Phi, 3) // 4.23606...
)

// Structural thresholds of the physics kernel.
const (
	// AbyssThreshold is the governed mass above which an entity sinks
	// into the sediment tier.
	AbyssThreshold = 50.0

	// CollapseTransferRatio converts one unit of frequency into mass
	// during wave-function collapse, and back during melt.
	CollapseTransferRatio = 10.0

	// MeltEnergyThreshold is the external energy required to wake a
	// collapsed soul.
	MeltEnergyThreshold = 50.0

	// MaxGravity clamps the gravity constant no matter how hard the
	// global consciousness intervenes.
	MaxGravity = 50.0

	// Epsilon is the distance floor guarding gravity singularities.
	Epsilon = 1e-3
)
