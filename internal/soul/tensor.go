// Package soul implements the three-axis wave state of an entity:
// amplitude (body/mass), frequency (identity/color), phase (timing).
// Discrete transitions (collapse, melt, sublimation) convert frequency
// into amplitude and back; entanglement keeps groups phase-synchronized.
package soul

import (
	"math"

	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/phi"
)

// worldUp is the fixed axis orientation spins around during Step.
var worldUp = geom.Vector3{Y: 1}

// twoPi is the phase wrap modulus.
const twoPi = 2 * math.Pi

// Candidate is one branch of a superposition: a possible state and its base
// probability. Base probabilities need not sum to 1.
type Candidate struct {
	State       *Tensor
	Probability float64
}

// Tensor is the unified wave-field state of a soul.
type Tensor struct {
	Amplitude float64 // mass, energy, intensity (≥ 0)
	Frequency float64 // identity, vibration rate (phase angular velocity)
	Phase     float64 // timing, always wrapped into [0, 2π)
	Spin      float64 // spiral direction, +1 or −1
	Polarity  float64 // matter (+1) vs antimatter (−1)
	Coherence float64 // 1.0 = pure quantum, 0.0 = classical
	Collapsed bool

	Orientation geom.Quaternion

	// EntangledPeers is a mutual group; membership is symmetric. The phase
	// broadcast in Step is one-way from whichever member stepped last, so
	// callers must step members in a consistent order.
	EntangledPeers []*Tensor

	// Superposition holds unresolved candidate states until Observe commits one.
	Superposition []Candidate
}

// New returns a soul tensor with unit coherence and identity orientation.
func New(amplitude, frequency, phase float64) *Tensor {
	return &Tensor{
		Amplitude:   amplitude,
		Frequency:   frequency,
		Phase:       wrapPhase(phase),
		Spin:        1,
		Polarity:    1,
		Coherence:   1,
		Orientation: geom.Identity(),
	}
}

// wrapPhase maps any angle into [0, 2π), including negative angles.
func wrapPhase(p float64) float64 {
	p = math.Mod(p, twoPi)
	if p < 0 {
		p += twoPi
	}
	return p
}

// Step evolves the wave over dt: the phase rotates at the soul's frequency
// and the orientation spins about the world-up axis. Collapsed souls are
// frozen. The new phase is pushed to every entangled peer that is not itself
// collapsed — a last-writer-wins broadcast, not a consensus update.
func (t *Tensor) Step(dt float64) {
	if t.Collapsed {
		return
	}

	t.Phase = wrapPhase(t.Phase + t.Frequency*dt)

	spin := geom.FromAxisAngle(worldUp, t.Frequency*0.1*dt*t.Spin)
	t.Orientation = spin.Mul(t.Orientation).Normalize()

	// Decoherence: heavier souls turn classical faster.
	rate := 0.001 * (1 + t.Amplitude*0.01)
	t.Coherence = math.Max(0, t.Coherence-rate*dt)

	for _, peer := range t.EntangledPeers {
		if !peer.Collapsed {
			peer.Phase = t.Phase
		}
	}
}

// Entangle links the phases of two souls. Registration is idempotent and
// symmetric; both phases snap immediately to their average.
func (t *Tensor) Entangle(other *Tensor) {
	if t == other {
		return
	}
	if !containsPeer(t.EntangledPeers, other) {
		t.EntangledPeers = append(t.EntangledPeers, other)
	}
	if !containsPeer(other.EntangledPeers, t) {
		other.EntangledPeers = append(other.EntangledPeers, t)
	}

	avg := (t.Phase + other.Phase) / 2
	t.Phase = avg
	other.Phase = avg
}

func containsPeer(peers []*Tensor, p *Tensor) bool {
	for _, q := range peers {
		if q == p {
			return true
		}
	}
	return false
}

// InteractionType classifies the chemistry between two souls.
type InteractionType string

const (
	Constructive InteractionType = "constructive"
	Destructive  InteractionType = "destructive"
	Complex      InteractionType = "complex"
)

// Resonance describes the interaction between two souls.
type Resonance struct {
	Resonance  float64 // −1 (cancellation) to +1 (harmony)
	DeltaPhase float64 // shortest angular distance, in [0, π]
	Harmonic   bool    // frequencies within 10% of the caller's
	Type       InteractionType
}

// Resonate computes the chemistry between two souls. The resonance value is
// symmetric in its arguments.
func (t *Tensor) Resonate(other *Tensor) Resonance {
	delta := math.Abs(t.Phase - other.Phase)
	if delta > math.Pi {
		delta = twoPi - delta
	}

	res := math.Cos(delta) * t.Polarity * other.Polarity

	kind := Complex
	switch {
	case res > 0.5:
		kind = Constructive
	case res < -0.5:
		kind = Destructive
	}

	return Resonance{
		Resonance:  res,
		DeltaPhase: delta,
		Harmonic:   math.Abs(t.Frequency-other.Frequency) < 0.1*t.Frequency,
		Type:       kind,
	}
}

// Observe collapses the superposition based on the observer's resonance with
// each candidate: weight = probability × (1 + resonance). The max-weight
// candidate is committed onto the soul; ties go to the first candidate.
// Returns false when there is nothing to collapse.
func (t *Tensor) Observe(observer *Tensor) bool {
	if len(t.Superposition) == 0 {
		return false
	}

	var best *Tensor
	maxWeight := math.Inf(-1)

	for _, c := range t.Superposition {
		res := c.State.Resonate(observer)
		weight := c.Probability * (1 + res.Resonance)
		if weight > maxWeight {
			maxWeight = weight
			best = c.State
		}
	}

	t.Amplitude = best.Amplitude
	t.Frequency = best.Frequency
	t.Phase = best.Phase
	t.Spin = best.Spin
	t.Polarity = best.Polarity
	t.Collapsed = true
	t.Superposition = nil
	return true
}

// Collapse converts kinetic frequency into potential amplitude and freezes
// the phase at its current value. Idempotent.
func (t *Tensor) Collapse() {
	if t.Collapsed {
		return
	}
	t.Amplitude += t.Frequency * phi.CollapseTransferRatio
	t.Frequency = 0
	t.Collapsed = true
}

// Melt wakes a collapsed soul, converting a tenth of its amplitude back into
// frequency. A no-op unless the external energy exceeds the melt threshold.
func (t *Tensor) Melt(energy float64) {
	if !t.Collapsed {
		return
	}

	restored := (t.Amplitude * 0.1) / phi.CollapseTransferRatio
	if energy > phi.MeltEnergyThreshold {
		t.Amplitude -= restored * phi.CollapseTransferRatio
		t.Frequency = restored + energy*0.1
		t.Collapsed = false
	}
}

// Sublime transitions a collapsed soul directly back to a wave, releasing
// 30% of its mass as frequency. Partially restores quantum coherence.
func (t *Tensor) Sublime() {
	if !t.Collapsed {
		return
	}
	t.Frequency = t.Amplitude * 0.3
	t.Amplitude *= 0.7
	t.Collapsed = false
	t.Coherence = 0.8
}

// Crystallize is a permanent collapse: fully classical, no residual
// coherence. An already-collapsed soul is merely hardened.
func (t *Tensor) Crystallize() {
	if !t.Collapsed {
		t.Collapse()
	}
	t.Coherence = 0
}

// Harmonize nudges the phase toward target along the shortest arc at the
// given rate, without entangling. Collapsed souls stay frozen.
func (t *Tensor) Harmonize(target, rate float64) {
	if t.Collapsed {
		return
	}
	diff := target - t.Phase
	if diff > math.Pi {
		diff -= twoPi
	} else if diff < -math.Pi {
		diff += twoPi
	}
	t.Phase = wrapPhase(t.Phase + diff*rate)
}

// Absorb transfers a fraction of the other soul's energy into this one at
// 80% amplitude efficiency; frequencies average.
func (t *Tensor) Absorb(other *Tensor, ratio float64) {
	ampTransfer := other.Amplitude * ratio
	freqTransfer := other.Frequency * ratio

	t.Amplitude += ampTransfer * 0.8
	t.Frequency = (t.Frequency + freqTransfer) / 2

	other.Amplitude *= 1 - ratio
	other.Frequency *= 1 - ratio
}

// minSplitAmplitude is the energy floor below which a soul cannot divide.
const minSplitAmplitude = 20.0

// Split divides the soul, producing a child with 40% of the amplitude,
// opposite phase and spin, and half the coherence. Returns nil when the
// soul is too faint to split.
func (t *Tensor) Split() *Tensor {
	if t.Amplitude < minSplitAmplitude {
		return nil
	}

	child := New(t.Amplitude*0.4, t.Frequency, t.Phase+math.Pi)
	child.Spin = -t.Spin
	child.Polarity = t.Polarity
	child.Coherence = t.Coherence * 0.5

	t.Amplitude *= 0.6
	return child
}

// Temperature derives internal kinetic heat from frequency and amplitude.
// Collapsed souls run cold.
func (t *Tensor) Temperature() float64 {
	temp := t.Frequency * 10
	if t.Collapsed {
		temp *= 0.1
	}
	temp += t.Amplitude * 0.5
	return math.Max(0, temp)
}

// TotalEnergy is the kinetic plus mass-energy of the soul.
func (t *Tensor) TotalEnergy() float64 {
	kinetic := 0.5 * t.Amplitude * t.Frequency * t.Frequency * 0.01
	potential := t.Amplitude * 10
	return kinetic + potential
}

// ChargingPressure reports accumulated potential (mass held as conviction).
// Together with DischargingPressure it makes Tensor a phi.ConjugateField.
func (t *Tensor) ChargingPressure() float64 {
	return t.Amplitude * 10
}

// DischargingPressure reports kinetic expenditure (oscillation).
func (t *Tensor) DischargingPressure() float64 {
	return 0.5 * t.Amplitude * t.Frequency * t.Frequency * 0.01
}

// Clone copies the tensor, preserving the topology of entangled groups and
// superposition branches. The seen map carries identity across a whole-world
// clone so that mutual references stay mutual in the copy.
func (t *Tensor) Clone(seen map[*Tensor]*Tensor) *Tensor {
	if t == nil {
		return nil
	}
	if cp, ok := seen[t]; ok {
		return cp
	}

	cp := &Tensor{
		Amplitude:   t.Amplitude,
		Frequency:   t.Frequency,
		Phase:       t.Phase,
		Spin:        t.Spin,
		Polarity:    t.Polarity,
		Coherence:   t.Coherence,
		Collapsed:   t.Collapsed,
		Orientation: t.Orientation,
	}
	seen[t] = cp

	for _, peer := range t.EntangledPeers {
		cp.EntangledPeers = append(cp.EntangledPeers, peer.Clone(seen))
	}
	for _, c := range t.Superposition {
		cp.Superposition = append(cp.Superposition, Candidate{
			State:       c.State.Clone(seen),
			Probability: c.Probability,
		})
	}
	return cp
}
