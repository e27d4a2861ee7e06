package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/phi"
	"github.com/talgya/waveworld/internal/physics"
)

// interventionCooldown is the minimum tick gap between interventions, to
// keep the controller from oscillating.
const interventionCooldown = 50

// Consciousness is the whole observing the parts: it aggregates the active
// souls into global metrics and intervenes on the physics constants when
// chaos climbs too high.
type Consciousness struct {
	Physics *physics.World

	GlobalEntropy  float64
	AlignmentScore float64

	LastIntervention uint64
	Interventions    int
}

// NewConsciousness attaches a global observer to a physics world.
func NewConsciousness(ph *physics.World) *Consciousness {
	return &Consciousness{Physics: ph}
}

// Step recomputes the metrics and, when entropy stays critical past the
// cooldown, restores order by intensifying gravity.
func (c *Consciousness) Step(w *World, dt float64) {
	c.calculateMetrics()

	if c.GlobalEntropy > 0.8 && w.Tick-c.LastIntervention > interventionCooldown {
		c.RestoreOrder(w)
	}
}

// calculateMetrics maps every active soul's phase onto the unit circle and
// measures the mean vector: magnitude 1 means full phase lock, magnitude 0
// means uniform chaos. Entropy is its complement.
func (c *Consciousness) calculateMetrics() {
	var sum geom.Vector3
	count := 0

	for _, e := range c.Physics.Active() {
		if e.Soul == nil {
			continue
		}
		count++
		sum = sum.Add(geom.Vector3{
			X: math.Cos(e.Soul.Phase),
			Y: math.Sin(e.Soul.Phase),
		})
	}

	if count == 0 {
		c.AlignmentScore = 0
		c.GlobalEntropy = 0
		return
	}

	c.AlignmentScore = sum.Scale(1.0 / float64(count)).Magnitude()
	c.GlobalEntropy = 1.0 - c.AlignmentScore
}

// RestoreOrder intensifies gravity to pull the population back together.
// The gravity constant grows by half, clamped to the maximum.
func (c *Consciousness) RestoreOrder(w *World) {
	c.LastIntervention = w.Tick
	c.Interventions++

	c.Physics.GravityConstant = math.Min(c.Physics.GravityConstant*1.5, phi.MaxGravity)

	slog.Warn("entropy critical, gravity intensified",
		"entropy", c.GlobalEntropy,
		"gravity", c.Physics.GravityConstant,
		"tick", w.Tick)
	w.EmitEvent("restore_order",
		fmt.Sprintf("entropy=%.2f gravity=%.1f", c.GlobalEntropy, c.Physics.GravityConstant))
}

// SparkChange doubles the soul coupling to shake a stagnant world loose.
func (c *Consciousness) SparkChange(w *World) {
	c.LastIntervention = w.Tick
	c.Interventions++

	c.Physics.CouplingConstant *= 2.0

	slog.Warn("stagnation detected, soul coupling increased",
		"coupling", c.Physics.CouplingConstant,
		"tick", w.Tick)
	w.EmitEvent("spark_change",
		fmt.Sprintf("coupling=%.1f", c.Physics.CouplingConstant))
}

// Health reports how balanced the population's conjugate pressures are,
// as judged by the golden band.
func (c *Consciousness) Health() float64 {
	var total float64
	count := 0
	for _, e := range c.Physics.Active() {
		if e.Soul == nil {
			continue
		}
		total += phi.HealthRatio(e.Soul)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// Fork duplicates the observer for a hypothetical world, carrying the
// metrics and cooldown state over.
func (c *Consciousness) Fork(ph *physics.World) System {
	return &Consciousness{
		Physics:          ph,
		GlobalEntropy:    c.GlobalEntropy,
		AlignmentScore:   c.AlignmentScore,
		LastIntervention: c.LastIntervention,
		Interventions:    c.Interventions,
	}
}
