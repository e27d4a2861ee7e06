package physics

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/talgya/waveworld/internal/geom"
)

// Coil is a helical field structure: the accelerator topology. Its field
// spirals around the axis, peaks at the nominal radius, and decays
// exponentially away from it.
type Coil struct {
	Axis      geom.Vector3
	Center    geom.Vector3
	Radius    float64
	Frequency float64 // pitch of the spiral
	Strength  float64
}

// NewCoil returns a coil with the canonical defaults.
func NewCoil(center geom.Vector3) *Coil {
	return &Coil{
		Axis:      geom.Vector3{Z: 1},
		Center:    center,
		Radius:    5.0,
		Frequency: 1.0,
		Strength:  10.0,
	}
}

// axisRotation returns the rotation taking the canonical z axis onto the
// coil axis. Parallel and antiparallel axes are handled as exact 0 and 180
// degree rotations rather than a degenerate cross product.
func (c *Coil) axisRotation() geom.Quaternion {
	canonical := geom.Vector3{Z: 1}
	target := c.Axis.Normalize()

	d := canonical.Dot(target)
	if math.Abs(d) > 0.999 {
		if d > 0 {
			return geom.Identity()
		}
		return geom.FromAxisAngle(geom.Vector3{X: 1}, math.Pi)
	}

	rotAxis := canonical.Cross(target).Normalize()
	return geom.FromAxisAngle(rotAxis, math.Acos(d))
}

// FieldVector returns the helical flow at a world position. Pure function of
// position and coil parameters.
func (c *Coil) FieldVector(position geom.Vector3) geom.Vector3 {
	rotation := c.axisRotation()
	local := rotation.Conjugate().Rotate(position.Sub(c.Center))

	// Rifling tangent in the local plane plus the axial pitch term.
	angle := math.Atan2(local.Y, local.X)
	tangent := geom.Vector3{
		X: -math.Sin(angle),
		Y: math.Cos(angle),
		Z: c.Frequency,
	}.Normalize()

	radial := math.Sqrt(local.X*local.X + local.Y*local.Y)
	intensity := c.Strength * math.Exp(-math.Abs(radial-c.Radius))

	return rotation.Rotate(tangent.Scale(intensity))
}

// RailgunAccelerate applies the coil field to a state as a one-step force.
func (c *Coil) RailgunAccelerate(state *State, dt float64) {
	state.ApplyForce(c.FieldVector(state.Position), dt)
}

// Superconduct attempts a hyperdrive jump toward the attractor: when the
// state is moving fast, close, and well-aligned, it teleports to just
// outside the attractor's capture radius and settles with zero velocity.
// Reports whether the jump happened.
func (c *Coil) Superconduct(state *State, target *Attractor) bool {
	toTarget := target.Position.Sub(state.Position)
	dist := toTarget.Magnitude()
	if dist == 0 {
		return false
	}

	alignment := 0.0
	speed := state.Velocity.Magnitude()
	if speed > 0 {
		alignment = state.Velocity.Normalize().Dot(toTarget.Normalize())
	}

	if alignment > 0.8 && speed > 10.0 && dist < 300.0 {
		offset := toTarget.Normalize().Scale(target.Radius * 1.1)
		state.Position = target.Position.Sub(offset)
		state.Velocity = geom.Vector3{}
		return true
	}
	return false
}

// incubationDistance is the maximum pair separation for wave interference.
const incubationDistance = 1.0

// Incubate runs the breeding pass: DNA-carrying entities inside the coil's
// influence are paired off, each pair pays the interference cost, and
// constructive interference yields a child entity at the pair midpoint.
// Each parent participates in at most one event per call; insertion order
// decides pairing. Returns the children; the caller owns registering them.
func (c *Coil) Incubate(entities []*Entity, worldTick uint64, rng *rand.Rand) []*Entity {
	influence := c.Radius + 5.0

	var inside []*Entity
	for _, e := range entities {
		if e.DNA == nil {
			continue
		}
		if e.Physics.Position.Sub(c.Center).Magnitude() <= influence {
			inside = append(inside, e)
		}
	}

	processed := make(map[string]bool)
	var children []*Entity

	for i := 0; i < len(inside); i++ {
		a := inside[i]
		if processed[a.ID] {
			continue
		}
		for j := i + 1; j < len(inside); j++ {
			b := inside[j]
			if processed[b.ID] {
				continue
			}
			if a.Physics.Position.Sub(b.Physics.Position).Magnitude() > incubationDistance {
				continue
			}

			processed[a.ID] = true
			processed[b.ID] = true

			// The attempt costs both parents a fifth of their wave,
			// child or no child.
			child := a.DNA.Interfere(b.DNA, rng)
			a.DNA.Amplitude *= 0.8
			b.DNA.Amplitude *= 0.8
			if a.Soul != nil {
				a.Soul.Amplitude *= 0.8
			}
			if b.Soul != nil {
				b.Soul.Amplitude *= 0.8
			}

			if child != nil {
				mid := a.Physics.Position.Add(b.Physics.Position).Scale(0.5)
				children = append(children, &Entity{
					ID:   fmt.Sprintf("spark-%d-%s-%s", worldTick, a.ID, b.ID),
					Soul: child.Tensor(),
					DNA:  child,
					Physics: State{
						Position: mid,
						Mass:     child.Amplitude * 0.1,
					},
				})
			}
			break
		}
	}
	return children
}
