package engine

import (
	"log/slog"
	"math"

	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/physics"
)

// dreamEntropyThreshold sits above the consciousness intervention threshold
// so the two controllers don't fire on the same tick.
const dreamEntropyThreshold = 0.85

// commitEntropyCeiling is the future entropy a dream must beat to be worth
// rotating reality for.
const commitEntropyCeiling = 0.6

// Dream implements quantum dreaming: when entropy turns critical, the world
// is forked three times, each fork running twenty ticks under a different
// spacetime torsion, and the rotation whose future is calmest is committed
// to reality.
type Dream struct {
	// Consciousness is the observer whose entropy triggers and scores dreams.
	Consciousness *Consciousness

	// SimulationTicks is how far each fork runs into the future.
	SimulationTicks int

	Dreams  int
	Commits int

	// simulate scores one fork; overridable for tests.
	simulate func(fork *World) float64
}

// NewDream wires the dreamer to its observer.
func NewDream(c *Consciousness) *Dream {
	d := &Dream{
		Consciousness:   c,
		SimulationTicks: 20,
	}
	d.simulate = d.runSimulation
	return d
}

// dreamAxis is one hypothesis: hold one dimension fixed and mix the other
// two with a quarter-turn around it.
type dreamAxis struct {
	label string
	axis  geom.Vector3
}

var dreamAxes = [3]dreamAxis{
	{"holding body (x)", geom.Vector3{X: 1}},
	{"holding soul (y)", geom.Vector3{Y: 1}},
	{"holding spirit (z)", geom.Vector3{Z: 1}},
}

// Step dreams only when reality has fractured. A committed solution rotates
// spacetime and resets the consciousness cooldown so the two controllers
// don't fight over the same crisis.
func (d *Dream) Step(w *World, dt float64) {
	if d.Consciousness == nil || d.Consciousness.GlobalEntropy <= dreamEntropyThreshold {
		return
	}

	slog.Warn("reality fractured, initiating dream sequence",
		"entropy", d.Consciousness.GlobalEntropy, "tick", w.Tick)
	d.Dreams++

	best := d.dreamOfBetterFuture(w)
	if best == nil {
		return
	}

	w.Physics.Torsion = best
	d.Consciousness.LastIntervention = w.Tick
	d.Commits++

	slog.Info("dream solution committed, rotating spacetime", "tick", w.Tick)
	w.EmitEvent("dream_commit", "spacetime torsion rotated")
}

// dreamOfBetterFuture tries a quarter-turn around each of the three axes and
// returns the torsion whose rollout ends below the commit ceiling, or nil
// when every future stays chaotic.
func (d *Dream) dreamOfBetterFuture(w *World) *geom.Quaternion {
	var best *geom.Quaternion
	lowest := 1.0

	for _, hyp := range dreamAxes {
		q := geom.FromAxisAngle(hyp.axis, math.Pi/2)

		fork, err := w.Fork()
		if err != nil {
			slog.Warn("dream fork failed", "axis", hyp.label, "error", err)
			continue
		}
		fork.Physics.Torsion = &q

		entropy := d.simulate(fork)
		slog.Info("dream path evaluated", "axis", hyp.label, "future_entropy", entropy)

		if entropy < lowest {
			lowest = entropy
			best = &q
		}
	}

	if lowest < commitEntropyCeiling {
		return best
	}
	return nil
}

// runSimulation fast-forwards a fork and reads its observer's final entropy.
// A fork that lost its observer scores as pure chaos.
func (d *Dream) runSimulation(fork *World) float64 {
	var gc *Consciousness
	for _, s := range fork.Systems {
		if c, ok := s.(*Consciousness); ok {
			gc = c
			break
		}
	}
	if gc == nil {
		return 1.0
	}

	for i := 0; i < d.SimulationTicks; i++ {
		fork.Step(1.0)
	}
	return gc.GlobalEntropy
}

// Fork returns nil: dreams never nest.
func (d *Dream) Fork(ph *physics.World) System {
	return nil
}
