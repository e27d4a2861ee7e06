package physics

import (
	"github.com/talgya/waveworld/internal/soul"
)

// Entity is a wave-bearing being. Every live entity is owned by exactly one
// of the world's two tiers — active or sediment — never both, never neither.
type Entity struct {
	ID      string
	Soul    *soul.Tensor
	DNA     *soul.WaveDNA // legacy wave function; only DNA carriers can breed
	Physics State

	// Bonds is the ordered set of neighbor ids; bonds are mutual once formed.
	Bonds []string

	// Dimension is the evolution stage (0–4), owned by an external
	// collaborator but promoted here when bonds form.
	Dimension int

	// Data is an open annotation bag. Its weight feeds atmospheric entropy.
	Data map[string]any

	// Role is an optional weighting key for downstream consumers.
	Role string
}

// HasBond reports whether the entity is bonded to id.
func (e *Entity) HasBond(id string) bool {
	for _, b := range e.Bonds {
		if b == id {
			return true
		}
	}
	return false
}

// addBond appends id and promotes the dimension: stage 1 on the first bond,
// stage 2 once the entity holds two or more.
func (e *Entity) addBond(id string) {
	e.Bonds = append(e.Bonds, id)
	if e.Dimension < 1 {
		e.Dimension = 1
	}
	if len(e.Bonds) >= 2 && e.Dimension < 2 {
		e.Dimension = 2
	}
}

// dataWeight measures the annotation bag: string values weigh their length,
// everything else weighs one.
func dataWeight(data map[string]any) float64 {
	var w float64
	for _, v := range data {
		if s, ok := v.(string); ok {
			w += float64(len(s))
		} else {
			w++
		}
	}
	return w
}

// Clone copies the entity, remapping its soul through seen so entangled
// groups stay mutual across a whole-world clone.
func (e *Entity) Clone(seen map[*soul.Tensor]*soul.Tensor) *Entity {
	cp := &Entity{
		ID:        e.ID,
		Soul:      e.Soul.Clone(seen),
		DNA:       e.DNA.Clone(),
		Physics:   e.Physics,
		Dimension: e.Dimension,
		Role:      e.Role,
	}
	cp.Bonds = append(cp.Bonds, e.Bonds...)
	if e.Data != nil {
		cp.Data = make(map[string]any, len(e.Data))
		for k, v := range e.Data {
			cp.Data[k] = v
		}
	}
	return cp
}
