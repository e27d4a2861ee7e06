package soul

import "math"

// harmonicRatios are the perfect intervals from music theory: unison,
// octave, fifth, fourth, major third.
var harmonicRatios = [...]float64{1.0, 2.0, 1.5, 4.0 / 3.0, 1.25}

// HarmonicDistance measures dissonance between two souls on their frequency
// ratio: 0 at a perfect interval, approaching 1 as the ratio drifts away
// from every interval. Non-positive frequencies are maximally dissonant.
func (t *Tensor) HarmonicDistance(other *Tensor) float64 {
	if t.Frequency <= 0 || other.Frequency <= 0 {
		return 1
	}

	ratio := math.Max(t.Frequency, other.Frequency) / math.Min(t.Frequency, other.Frequency)

	minDist := math.Inf(1)
	for _, pr := range harmonicRatios {
		d := math.Abs(ratio-pr) / pr
		if d < minDist {
			minDist = d
		}
	}
	return math.Min(1, minDist)
}

// IsOctave reports whether two souls sit within 10% of a power-of-two
// frequency ratio.
func (t *Tensor) IsOctave(other *Tensor) bool {
	if t.Frequency <= 0 || other.Frequency <= 0 {
		return false
	}
	ratio := math.Max(t.Frequency, other.Frequency) / math.Min(t.Frequency, other.Frequency)
	logRatio := math.Log2(ratio)
	return math.Abs(logRatio-math.Round(logRatio)) < 0.1
}
