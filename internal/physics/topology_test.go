package physics

import (
	"math"
	"testing"

	"github.com/talgya/waveworld/internal/geom"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGravityPathZeroBeyondBanks(t *testing.T) {
	p := NewGravityPath(geom.Vector3{}, geom.Vector3{X: 10})

	state := &State{Position: geom.Vector3{X: 5, Y: p.Radius*2 + 0.1}, Mass: 1}
	if f := p.CalculateForce(state); f != (geom.Vector3{}) {
		t.Fatalf("force beyond banks = %+v, want zero", f)
	}
}

func TestGravityPathCentersAndFlows(t *testing.T) {
	p := NewGravityPath(geom.Vector3{}, geom.Vector3{X: 10})

	state := &State{Position: geom.Vector3{X: 5, Y: 3}, Mass: 1}
	f := p.CalculateForce(state)

	if !almostEqual(f.Y, -p.PullStrength) {
		t.Fatalf("centering component = %v, want %v", f.Y, -p.PullStrength)
	}
	if !almostEqual(f.X, p.FlowStrength) {
		t.Fatalf("flow component = %v, want %v", f.X, p.FlowStrength)
	}
}

func TestGravityPathPicksNearestSegment(t *testing.T) {
	// An L-shaped river: along x, then up y.
	p := NewGravityPath(
		geom.Vector3{},
		geom.Vector3{X: 10},
		geom.Vector3{X: 10, Y: 10},
	)

	state := &State{Position: geom.Vector3{X: 11, Y: 5}, Mass: 1}
	f := p.CalculateForce(state)

	// Nearest segment is the vertical one; flow points along +y.
	if f.Y <= 0 {
		t.Fatalf("flow = %+v, want +y dominant", f)
	}
	if f.X >= 0 {
		t.Fatalf("centering = %+v, want pull back toward x=10", f)
	}
}

func TestGravityPathDegenerate(t *testing.T) {
	p := NewGravityPath(geom.Vector3{})
	state := &State{Position: geom.Vector3{X: 1}, Mass: 1}
	if f := p.CalculateForce(state); f != (geom.Vector3{}) {
		t.Fatalf("single-point path produced force %+v", f)
	}
}

func TestTensorGateBoostsQualified(t *testing.T) {
	g := NewTensorGate(geom.Vector3{})
	g.RequiredMomentum = 5
	g.RequiredEnergy = 10

	state := &State{Velocity: geom.Vector3{X: 10}, Mass: 1}
	f := g.CalculateInteraction(state, 20)

	want := g.BoostMultiplier * 10.0
	if !almostEqual(f.X, want) || f.Y != 0 || f.Z != 0 {
		t.Fatalf("boost = %+v, want +x %v", f, want)
	}
}

func TestTensorGateRejectsUnderpowered(t *testing.T) {
	g := NewTensorGate(geom.Vector3{})
	g.RequiredMomentum = 100

	state := &State{Velocity: geom.Vector3{X: 10}, Mass: 1}
	f := g.CalculateInteraction(state, 0)

	if !almostEqual(f.X, -g.RejectForce) {
		t.Fatalf("reject = %+v, want -x %v", f, g.RejectForce)
	}
}

func TestTensorGateRejectsStationaryRadially(t *testing.T) {
	g := NewTensorGate(geom.Vector3{})
	g.RequiredEnergy = 100

	state := &State{Position: geom.Vector3{X: 2}, Mass: 1}
	f := g.CalculateInteraction(state, 0)

	if !almostEqual(f.X, g.RejectForce) {
		t.Fatalf("radial push = %+v, want +x %v", f, g.RejectForce)
	}
}

func TestTensorGateIgnoresDistant(t *testing.T) {
	g := NewTensorGate(geom.Vector3{})
	state := &State{Position: geom.Vector3{X: g.Radius + 1}, Velocity: geom.Vector3{X: 1}, Mass: 1}
	if f := g.CalculateInteraction(state, 1000); f != (geom.Vector3{}) {
		t.Fatalf("distant interaction = %+v, want zero", f)
	}
}

func TestAttractorForceInverseSquare(t *testing.T) {
	a := &Attractor{Position: geom.Vector3{}, Mass: 100}

	near := a.CalculateForce(geom.Vector3{X: 1}, 1).Magnitude()
	far := a.CalculateForce(geom.Vector3{X: 2}, 1).Magnitude()
	if !almostEqual(near/far, 4) {
		t.Fatalf("force ratio at r=1 vs r=2 is %v, want 4", near/far)
	}

	// Inside the epsilon floor the pull vanishes instead of exploding.
	if f := a.CalculateForce(geom.Vector3{}, 1); f != (geom.Vector3{}) {
		t.Fatalf("singular force = %+v, want zero", f)
	}
}

func TestApplyForceToleratesZeroMass(t *testing.T) {
	s := &State{}
	s.ApplyForce(geom.Vector3{X: 100}, 1)
	if s.Velocity != (geom.Vector3{}) {
		t.Fatalf("zero-mass state accelerated: %+v", s.Velocity)
	}
}
