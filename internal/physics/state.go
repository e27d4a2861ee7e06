// Package physics implements the resonant digital-physics kernel: the
// per-tick integration loop over wave-bearing entities, the deterministic
// field generators (coil, gravity path, tensor gate), and the two-tier
// active/sediment population model.
package physics

import (
	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/phi"
	"github.com/talgya/waveworld/internal/soul"
)

// State is the spatial state of an entity.
type State struct {
	Position geom.Vector3
	Velocity geom.Vector3
	Mass     float64
}

// ApplyForce accelerates the state by F/m over dt. Non-positive mass
// silently drops the force — tolerate, don't validate.
func (s *State) ApplyForce(force geom.Vector3, dt float64) {
	if s.Mass <= 0 {
		return
	}
	s.Velocity = s.Velocity.Add(force.Scale(dt / s.Mass))
}

// Integrate advances position by velocity over dt.
func (s *State) Integrate(dt float64) {
	s.Position = s.Position.Add(s.Velocity.Scale(dt))
}

// Momentum is |v|·m, the physical momentum used by gate checks.
func (s *State) Momentum() float64 {
	return s.Velocity.Magnitude() * s.Mass
}

// Attractor is a gravity well: a goal or answer in the semantic space.
// An attractor with a soul participates in field generation like a living
// entity; one without gets a neutral soul synthesized during the bloom.
type Attractor struct {
	ID       string
	Position geom.Vector3
	Mass     float64
	Radius   float64 // capture radius
	Soul     *soul.Tensor
}

// CalculateForce returns the gravitational pull on a unit mass at target:
// g·M/r² toward the attractor, zero inside the epsilon floor.
func (a *Attractor) CalculateForce(target geom.Vector3, g float64) geom.Vector3 {
	diff := a.Position.Sub(target)
	dist := diff.Magnitude()
	if dist < phi.Epsilon {
		return geom.Vector3{}
	}
	return diff.Normalize().Scale(g * a.Mass / (dist * dist))
}

// Clone copies the attractor, remapping its soul through seen.
func (a *Attractor) Clone(seen map[*soul.Tensor]*soul.Tensor) *Attractor {
	cp := *a
	cp.Soul = a.Soul.Clone(seen)
	return &cp
}
