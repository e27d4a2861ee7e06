package physics

import (
	"math"

	"github.com/talgya/waveworld/internal/geom"
)

// GravityPath is a river of gravity: a piecewise-linear pipe that pulls
// nearby entities toward its center line and pushes them along it.
type GravityPath struct {
	Points       []geom.Vector3
	Radius       float64
	PullStrength float64 // gravity toward the pipe center
	FlowStrength float64 // push along the pipe
}

// NewGravityPath builds a path through points with the canonical defaults.
func NewGravityPath(points ...geom.Vector3) *GravityPath {
	return &GravityPath{
		Points:       points,
		Radius:       5.0,
		PullStrength: 10.0,
		FlowStrength: 5.0,
	}
}

// closestSegment finds the segment nearest to pos and the clamped projection
// onto it. Returns the segment endpoints and the squared distance.
func (p *GravityPath) closestSegment(pos geom.Vector3) (geom.Vector3, geom.Vector3, float64) {
	bestDistSq := math.Inf(1)
	bestA, bestB := p.Points[0], p.Points[1]

	for i := 0; i < len(p.Points)-1; i++ {
		a, b := p.Points[i], p.Points[i+1]
		seg := b.Sub(a)

		segLenSq := seg.Dot(seg)
		if segLenSq <= 0 {
			continue
		}

		t := pos.Sub(a).Dot(seg) / segLenSq
		t = math.Max(0, math.Min(1, t))
		closest := a.Add(seg.Scale(t))

		d := pos.Sub(closest)
		distSq := d.Dot(d)
		if distSq < bestDistSq {
			bestDistSq = distSq
			bestA, bestB = a, b
		}
	}
	return bestA, bestB, bestDistSq
}

// CalculateForce returns the river's force at a state's position: zero
// beyond twice the radius, otherwise a centering pull toward the nearest
// point on the path plus a tangential flow push.
func (p *GravityPath) CalculateForce(state *State) geom.Vector3 {
	if len(p.Points) < 2 {
		return geom.Vector3{}
	}

	a, b, distSq := p.closestSegment(state.Position)
	if math.Sqrt(distSq) > p.Radius*2.0 {
		return geom.Vector3{}
	}

	seg := b.Sub(a)
	t := state.Position.Sub(a).Dot(seg) / seg.Dot(seg)
	t = math.Max(0, math.Min(1, t))
	closest := a.Add(seg.Scale(t))

	centering := closest.Sub(state.Position).Normalize().Scale(p.PullStrength)
	flow := seg.Normalize().Scale(p.FlowStrength)

	return centering.Add(flow)
}

// TensorGate is a topological checkpoint: entities that carry enough
// momentum and energy are boosted through, the rest are repelled.
type TensorGate struct {
	Position         geom.Vector3
	Radius           float64
	RequiredMomentum float64
	RequiredEnergy   float64
	BoostMultiplier  float64
	RejectForce      float64
}

// NewTensorGate places a gate with the canonical defaults.
func NewTensorGate(position geom.Vector3) *TensorGate {
	return &TensorGate{
		Position:        position,
		Radius:          5.0,
		BoostMultiplier: 1.5,
		RejectForce:     50.0,
	}
}

// CalculateInteraction returns the gate's force on a state. The energy value
// is supplied by the caller (typically the soul's total energy); momentum is
// the physical |v|·m of the state.
func (g *TensorGate) CalculateInteraction(state *State, energy float64) geom.Vector3 {
	if state.Position.Sub(g.Position).Magnitude() > g.Radius {
		return geom.Vector3{}
	}

	passed := state.Momentum() >= g.RequiredMomentum && energy >= g.RequiredEnergy

	speed := state.Velocity.Magnitude()
	if passed {
		if speed > 0 {
			return state.Velocity.Normalize().Scale(g.BoostMultiplier * 10.0)
		}
		return geom.Vector3{}
	}

	if speed > 0 {
		return state.Velocity.Normalize().Scale(-g.RejectForce)
	}
	// A stationary reject is shoved radially away from the gate.
	return state.Position.Sub(g.Position).Normalize().Scale(g.RejectForce)
}
