package phi

// ConjugateField represents any entity with conjugate charge/discharge
// dynamics. In the wave kernel the pair is potential (amplitude held as
// mass) against kinetic (frequency spent as oscillation); the same
// interface applies at soul and world scale.
type ConjugateField interface {
	// ChargingPressure returns the accumulation pressure (mass, conviction).
	ChargingPressure() float64
	// DischargingPressure returns the expenditure pressure (oscillation, doubt).
	DischargingPressure() float64
}

// NullPoint returns the pressure differential — the resolution toward
// lowest-pressure equilibrium, not an attractive force.
func NullPoint(f ConjugateField) float64 {
	cp := f.ChargingPressure()
	dp := f.DischargingPressure()
	if cp > dp {
		return cp - dp
	}
	return dp - cp
}

// HealthRatio returns 0.0–1.0 indicating how balanced the conjugate pair is.
// Perfect health at 1.0. Uses the golden ratio as the natural tolerance band.
func HealthRatio(f ConjugateField) float64 {
	dp := f.DischargingPressure()
	if dp < Agnosis {
		dp = Agnosis
	}
	ratio := f.ChargingPressure() / dp

	// Healthy when the ratio falls in the golden band: Φ⁻¹ to Φ.
	if ratio >= Matter && ratio <= Being {
		return 1.0
	}

	deviation := ratio - 1.0
	if deviation < 0 {
		deviation = -deviation
	}
	health := 1.0 - deviation/Totality
	if health < 0 {
		return 0
	}
	return health
}
