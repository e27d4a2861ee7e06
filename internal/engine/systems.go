package engine

import (
	"fmt"
	"math/rand"

	"github.com/talgya/waveworld/internal/physics"
)

// CoilSystem drives a tensor coil: every active entity rides its helical
// field, fast well-aligned entities may superconduct to an attractor, and
// DNA carriers inside the coil breed by wave interference.
type CoilSystem struct {
	Coil            *physics.Coil
	PopulationLimit int

	TotalBirths int
	TotalJumps  int

	seed int64
	rng  *rand.Rand
}

// NewCoilSystem builds the system around a coil. The seed drives mutation
// jitter during incubation; a zero population limit means unlimited.
func NewCoilSystem(coil *physics.Coil, populationLimit int, seed int64) *CoilSystem {
	return &CoilSystem{
		Coil:            coil,
		PopulationLimit: populationLimit,
		seed:            seed,
		rng:             rand.New(rand.NewSource(seed)),
	}
}

func (c *CoilSystem) Step(w *World, dt float64) {
	active := w.Physics.Active()

	for _, e := range active {
		c.Coil.RailgunAccelerate(&e.Physics, dt)

		for _, a := range w.Physics.Attractors() {
			if c.Coil.Superconduct(&e.Physics, a) {
				c.TotalJumps++
				w.EmitEvent("superconduct", fmt.Sprintf("%s -> %s", e.ID, a.ID))
				break
			}
		}
	}

	if c.PopulationLimit > 0 && len(w.Entities()) >= c.PopulationLimit {
		return
	}
	for _, child := range c.Coil.Incubate(active, w.Tick, c.rng) {
		if c.PopulationLimit > 0 && len(w.Entities()) >= c.PopulationLimit {
			break
		}
		w.AddEntity(child)
		c.TotalBirths++
		w.EmitEvent("spark", child.ID)
	}
}

// Fork copies the system with a derived jitter stream so the dream's
// mutations don't consume reality's randomness.
func (c *CoilSystem) Fork(ph *physics.World) System {
	cp := NewCoilSystem(c.Coil, c.PopulationLimit, c.seed+1)
	cp.TotalBirths = c.TotalBirths
	cp.TotalJumps = c.TotalJumps
	return cp
}

// TopologySystem applies the static topology — gravity rivers and tensor
// gates — to every active entity each tick.
type TopologySystem struct {
	Paths []*physics.GravityPath
	Gates []*physics.TensorGate
}

func (t *TopologySystem) Step(w *World, dt float64) {
	for _, e := range w.Physics.Active() {
		for _, p := range t.Paths {
			e.Physics.ApplyForce(p.CalculateForce(&e.Physics), dt)
		}

		energy := 0.0
		if e.Soul != nil {
			energy = e.Soul.TotalEnergy()
		}
		for _, g := range t.Gates {
			e.Physics.ApplyForce(g.CalculateInteraction(&e.Physics, energy), dt)
		}
	}
}

// Fork shares the topology: paths and gates are immutable after setup.
func (t *TopologySystem) Fork(ph *physics.World) System {
	return &TopologySystem{Paths: t.Paths, Gates: t.Gates}
}
