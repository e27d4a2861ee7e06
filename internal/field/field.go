// Package field defines the spatial field service the physics loop queries:
// a deterministic solver fed one full snapshot of the world per tick
// (the Eulerian bloom) and sampled per entity afterwards. The kernel treats
// the solver as opaque; this package also ships a reference implementation
// built on layered simplex noise.
package field

import (
	"math"

	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/soul"
)

// Sample pairs a 4D position (x, y, z, time) with the soul radiating there.
type Sample struct {
	Position geom.Vector4
	Soul     *soul.Tensor
}

// Service is the fixed query contract of the field solver. Implementations
// must be deterministic: identical snapshots and query arguments yield
// identical results.
type Service interface {
	// UpdateField replaces the solver's snapshot with a full batch of
	// samples. Called exactly once per tick, before any entity moves.
	UpdateField(samples []Sample)

	// SampleField returns the raw field channels at a spacetime position.
	SampleField(pos geom.Vector4, tick uint64) geom.Vector4

	// LocalForces returns the geodesic flow force and the local rotor at a
	// position, shaped by the querying soul (nil souls query the bare field).
	LocalForces(pos geom.Vector4, s *soul.Tensor) (geom.Vector4, Rotor)
}

// Cloner is implemented by services that can be duplicated for dream forks.
// Services without it are shared between the fork and the real world, which
// is safe only because each world re-blooms at the start of its own tick.
type Cloner interface {
	CloneService() Service
}

// Rotor is a normalized scalar-plus-bivector pair describing the local swirl
// of the field. Applying it to a vector rotates the vector in the plane of
// the bivector.
type Rotor struct {
	Scalar     float64
	XY, YZ, ZX float64
}

// IdentityRotor is the rotor that leaves vectors unchanged.
func IdentityRotor() Rotor {
	return Rotor{Scalar: 1}
}

// Damped scales the bivector components by factor and renormalizes,
// flattening the swirl toward identity.
func (r Rotor) Damped(factor float64) Rotor {
	return Rotor{
		Scalar: r.Scalar,
		XY:     r.XY * factor,
		YZ:     r.YZ * factor,
		ZX:     r.ZX * factor,
	}.normalized()
}

func (r Rotor) normalized() Rotor {
	m := math.Sqrt(r.Scalar*r.Scalar + r.XY*r.XY + r.YZ*r.YZ + r.ZX*r.ZX)
	if m == 0 {
		return IdentityRotor()
	}
	return Rotor{r.Scalar / m, r.XY / m, r.YZ / m, r.ZX / m}
}

// Rotate applies the rotor to a vector. A unit scalar-bivector pair in 3D is
// a quaternion in disguise: w=scalar and the bivector planes map to the dual
// axes (e23→x, e31→y, e12→z).
func (r Rotor) Rotate(v geom.Vector3) geom.Vector3 {
	q := geom.Quaternion{W: r.Scalar, X: r.YZ, Y: r.ZX, Z: r.XY}.Normalize()
	return q.Rotate(v)
}
