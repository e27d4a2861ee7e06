package soul

import (
	"math"
	"math/rand"
)

// WaveDNA is the legacy wave function carried by breedable entities. It
// predates the full Tensor and survives as the substrate of coil incubation:
// two DNAs interfere, and a constructive pattern becomes a child.
type WaveDNA struct {
	Frequency float64
	Phase     float64
	Amplitude float64
	Spin      float64
}

// Evolve rotates the wave's phase at its frequency.
func (d *WaveDNA) Evolve(dt float64) {
	d.Phase = wrapPhase(d.Phase + d.Frequency*dt)
}

// Interfere performs wave crossover with another DNA. A destructive pattern
// (resonance below −0.5) yields no child; otherwise the child's frequency is
// the parents' average plus mutation jitter, and its amplitude follows the
// two-wave interference formula scaled to 80% to bleed off energy.
func (d *WaveDNA) Interfere(other *WaveDNA, rng *rand.Rand) *WaveDNA {
	delta := math.Abs(d.Phase - other.Phase)
	if delta > math.Pi {
		delta = twoPi - delta
	}
	resonance := math.Cos(delta)

	if resonance < -0.5 {
		return nil
	}

	avgFreq := (d.Frequency + other.Frequency) / 2
	mutation := (rng.Float64()*0.2 - 0.1) * avgFreq

	combined := math.Sqrt(d.Amplitude*d.Amplitude +
		other.Amplitude*other.Amplitude +
		2*d.Amplitude*other.Amplitude*resonance)

	return &WaveDNA{
		Frequency: avgFreq + mutation,
		Phase:     (d.Phase + other.Phase) / 2,
		Amplitude: combined * 0.8,
		Spin:      (d.Spin + other.Spin) / 2,
	}
}

// DecodeMeaning translates frequency into a semantic band.
func (d *WaveDNA) DecodeMeaning() string {
	switch {
	case d.Frequency < 10:
		return "Void (Stagnation)"
	case d.Frequency < 30:
		return "Ice (Stability)"
	case d.Frequency < 60:
		return "Water (Flow)"
	case d.Frequency < 100:
		return "Fire (Passion)"
	case d.Frequency < 200:
		return "Wind (Curiosity)"
	case d.Frequency < 500:
		return "Lightning (Insight)"
	case d.Frequency < 1000:
		return "Light (Wisdom)"
	default:
		return "Singularity (Transcendence)"
	}
}

// Tensor expands the DNA into a full soul tensor.
func (d *WaveDNA) Tensor() *Tensor {
	t := New(d.Amplitude, d.Frequency, d.Phase)
	if d.Spin < 0 {
		t.Spin = -1
	}
	return t
}

// Clone copies the DNA.
func (d *WaveDNA) Clone() *WaveDNA {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}
