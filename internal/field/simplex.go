package field

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/phi"
	"github.com/talgya/waveworld/internal/soul"
)

// SimplexField is the deterministic reference field solver. The background
// medium is layered 4D simplex noise (one generator per force channel, one
// for the rotor); on top of it, every snapshot sample radiates an
// inverse-square pull proportional to its soul's amplitude, signed by
// resonance with the querying soul.
type SimplexField struct {
	seed  int64
	force [3]opensimplex.Noise
	swirl opensimplex.Noise

	// Strength of the background medium relative to sample gravity.
	NoiseScale float64

	snapshot []Sample
}

// NewSimplexField builds a field solver with independent noise layers
// derived from the seed.
func NewSimplexField(seed int64) *SimplexField {
	return &SimplexField{
		seed: seed,
		force: [3]opensimplex.Noise{
			opensimplex.New(seed),
			opensimplex.New(seed + 1),
			opensimplex.New(seed + 2),
		},
		swirl:      opensimplex.New(seed + 3),
		NoiseScale: 0.5,
	}
}

// UpdateField replaces the snapshot. The slice is copied so the caller may
// reuse its buffer.
func (f *SimplexField) UpdateField(samples []Sample) {
	f.snapshot = append(f.snapshot[:0], samples...)
}

// SampleField returns the four raw field channels at a spacetime position.
func (f *SimplexField) SampleField(pos geom.Vector4, tick uint64) geom.Vector4 {
	t := pos.W + float64(tick)*0.01
	return geom.Vector4{
		X: f.force[0].Eval4(pos.X, pos.Y, pos.Z, t),
		Y: f.force[1].Eval4(pos.X, pos.Y, pos.Z, t),
		Z: f.force[2].Eval4(pos.X, pos.Y, pos.Z, t),
		W: f.swirl.Eval4(pos.X, pos.Y, pos.Z, t),
	}
}

// LocalForces returns the geodesic flow and local rotor at a position.
func (f *SimplexField) LocalForces(pos geom.Vector4, s *soul.Tensor) (geom.Vector4, Rotor) {
	// Background medium.
	raw := f.SampleField(pos, 0)
	force := geom.Vector4{
		X: raw.X * f.NoiseScale,
		Y: raw.Y * f.NoiseScale,
		Z: raw.Z * f.NoiseScale,
	}

	// Sample gravity: each radiator pulls with amp/r², signed by resonance.
	here := pos.Spatial()
	for i := range f.snapshot {
		sm := &f.snapshot[i]
		diff := sm.Position.Spatial().Sub(here)
		dist := diff.Magnitude()
		if dist < phi.Epsilon {
			continue
		}

		weight := 1.0
		if sm.Soul != nil {
			weight = sm.Soul.Amplitude
			if s != nil {
				weight *= s.Resonate(sm.Soul).Resonance
			}
		}

		pull := diff.Normalize().Scale(weight / (dist * dist))
		force.X += pull.X
		force.Y += pull.Y
		force.Z += pull.Z
	}

	// Local rotor: the swirl channel sets the rotation angle, the force
	// channels its plane. Soul spin flips the handedness.
	angle := raw.W * math.Pi
	if s != nil {
		angle *= s.Spin
	}
	half := angle * 0.5
	sin := math.Sin(half)
	rotor := Rotor{
		Scalar: math.Cos(half),
		XY:     raw.Z * sin,
		YZ:     raw.X * sin,
		ZX:     raw.Y * sin,
	}.normalized()

	return force, rotor
}

// CloneService duplicates the solver for a dream fork. The noise generators
// are stateless and shared; the snapshot is copied.
func (f *SimplexField) CloneService() Service {
	cp := *f
	cp.snapshot = append([]Sample(nil), f.snapshot...)
	return &cp
}
