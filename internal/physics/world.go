package physics

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/waveworld/internal/field"
	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/phi"
	"github.com/talgya/waveworld/internal/soul"
)

// forwardAxis is the body-frame direction a soul propels itself along.
var forwardAxis = geom.Vector3{Z: 1}

// sedimentReviewInterval is the tick period of the cheap sediment tier.
const sedimentReviewInterval = 100

// World owns the active and sediment entity tiers, the attractors, and the
// universal constants the meta-controllers tune. One Step call advances
// exactly one tick with the caller's dt.
type World struct {
	GravityConstant  float64
	CouplingConstant float64
	TimeScale        float64
	ExpansionRate    float64
	Radius           float64

	Tick uint64
	Time float64

	// Torsion, when set, twists every computed flow force.
	Torsion *geom.Quaternion

	// Field is the opaque spatial solver queried each tick.
	Field field.Service

	active     []*Entity
	sediments  []*Entity
	attractors []*Attractor
	index      map[string]*Entity

	sampleBuf []field.Sample
}

// NewWorld creates a physics world around a field solver.
func NewWorld(f field.Service) *World {
	return &World{
		GravityConstant:  1.0,
		CouplingConstant: 1.0,
		TimeScale:        1.0,
		Radius:           100.0,
		Field:            f,
		index:            make(map[string]*Entity),
	}
}

// Register adds an entity to the active tier. Re-registering an id is a
// no-op: entities are registered once.
func (w *World) Register(e *Entity) {
	if _, ok := w.index[e.ID]; ok {
		return
	}
	w.index[e.ID] = e
	w.active = append(w.active, e)
}

// Remove deletes an entity from whichever tier owns it.
func (w *World) Remove(id string) {
	if _, ok := w.index[id]; !ok {
		return
	}
	delete(w.index, id)
	w.active = removeByID(w.active, id)
	w.sediments = removeByID(w.sediments, id)
}

func removeByID(list []*Entity, id string) []*Entity {
	for i, e := range list {
		if e.ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// AddAttractor registers a gravity well.
func (w *World) AddAttractor(a *Attractor) {
	w.attractors = append(w.attractors, a)
}

// Lookup returns the entity with the given id, or nil.
func (w *World) Lookup(id string) *Entity {
	return w.index[id]
}

// Active returns the active tier in insertion order. Callers must not
// mutate the slice.
func (w *World) Active() []*Entity { return w.active }

// Sediments returns the sediment tier in demotion order.
func (w *World) Sediments() []*Entity { return w.sediments }

// Attractors returns the registered gravity wells.
func (w *World) Attractors() []*Attractor { return w.attractors }

// Step advances the world one tick. The update is two-phase: first the
// Eulerian bloom hands the field solver one consistent snapshot of every
// radiator, then each active entity is integrated against that snapshot.
// Heavy entities sink to the sediment tier and are revisited only every
// hundred ticks.
func (w *World) Step(dt float64) {
	w.Tick++
	w.Time += dt
	w.Radius += w.ExpansionRate * dt

	w.bloom()

	survivors := w.active[:0]
	var sank []*Entity
	for _, e := range w.active {
		w.govern(e)

		if e.Physics.Mass > phi.AbyssThreshold {
			sank = append(sank, e)
			continue
		}

		w.integrate(e, dt)
		survivors = append(survivors, e)
	}
	w.active = survivors
	if len(sank) > 0 {
		w.sediments = append(w.sediments, sank...)
		slog.Debug("entities sank to the abyss", "count", len(sank), "tick", w.Tick)
	}

	w.bindNeighbors()

	if w.Tick%sedimentReviewInterval == 0 {
		w.reviewSediments(dt)
	}
}

// bloom gathers a 4D sample for every radiator — active, sediment, and
// attractor alike — and hands the batch to the field solver before anything
// moves, so all forces this tick see one consistent field.
func (w *World) bloom() {
	w.sampleBuf = w.sampleBuf[:0]
	for _, e := range w.active {
		w.sampleBuf = append(w.sampleBuf, w.sampleFor(e.Physics.Position, e.Soul))
	}
	for _, e := range w.sediments {
		w.sampleBuf = append(w.sampleBuf, w.sampleFor(e.Physics.Position, e.Soul))
	}
	for _, a := range w.attractors {
		s := a.Soul
		if s == nil {
			// Attractors without a soul radiate as neutral mass.
			s = soul.New(a.Mass, 0, 0)
		}
		w.sampleBuf = append(w.sampleBuf, w.sampleFor(a.Position, s))
	}
	w.Field.UpdateField(w.sampleBuf)
}

func (w *World) sampleFor(pos geom.Vector3, s *soul.Tensor) field.Sample {
	return field.Sample{
		Position: geom.Vector4{X: pos.X, Y: pos.Y, Z: pos.Z, W: w.Time},
		Soul:     s,
	}
}

// govern applies atmospheric governance: the entity's data load, bond count,
// and detuning from the horizon frequency become entropy, entropy becomes
// mass, and noisy entities are slowed.
func (w *World) govern(e *Entity) {
	entropy := dataWeight(e.Data)*0.01 + float64(len(e.Bonds))
	if e.Soul != nil {
		entropy += math.Abs(e.Soul.Frequency-phi.HorizonFrequency) * 10
	}

	e.Physics.Mass = math.Max(1, 1+entropy*0.5)
	if entropy > 10 {
		e.Physics.Velocity = e.Physics.Velocity.Scale(0.95)
	}
}

// integrate applies one tick of forces to an active entity: the rotor-spun
// geodesic flow, attractor gravity, self-propulsion, and the optional
// spacetime torsion, then integrates position.
func (w *World) integrate(e *Entity, dt float64) {
	pos4 := geom.Vector4{
		X: e.Physics.Position.X,
		Y: e.Physics.Position.Y,
		Z: e.Physics.Position.Z,
		W: w.Time,
	}
	flow4, rotor := w.Field.LocalForces(pos4, e.Soul)

	// Damping the rotor's bivector to 10% turns the raw swirl into a gentle
	// spiral trajectory instead of a violent twist.
	force := rotor.Damped(0.1).Rotate(flow4.Spatial()).Scale(w.CouplingConstant)

	force = force.Add(w.netGravity(e.Physics.Position))

	if e.Soul != nil && !e.Soul.Collapsed {
		thrust := e.Soul.Orientation.Rotate(forwardAxis).Scale(e.Soul.Amplitude * 0.1)
		force = force.Add(thrust)
	}

	if w.Torsion != nil {
		force = w.Torsion.Rotate(force)
	}

	e.Physics.ApplyForce(force, dt)
	e.Physics.Integrate(dt)
}

// netGravity sums attractor pulls at a position under the current gravity
// constant.
func (w *World) netGravity(pos geom.Vector3) geom.Vector3 {
	var total geom.Vector3
	for _, a := range w.attractors {
		total = total.Add(a.CalculateForce(pos, w.GravityConstant))
	}
	return total
}

// bindNeighbors scans the active tier pairwise: close resonant pairs bond,
// very close and very resonant pairs entangle. Sediments are too inert to
// bind. Insertion order breaks ties deterministically.
func (w *World) bindNeighbors() {
	for i := 0; i < len(w.active); i++ {
		a := w.active[i]
		if a.Soul == nil {
			continue
		}
		for j := i + 1; j < len(w.active); j++ {
			b := w.active[j]
			if b.Soul == nil {
				continue
			}

			dist := a.Physics.Position.Sub(b.Physics.Position).Magnitude()
			if dist > 2.0 {
				continue
			}

			res := a.Soul.Resonate(b.Soul).Resonance
			if res > 0.9 && !a.HasBond(b.ID) {
				a.addBond(b.ID)
				b.addBond(a.ID)
			}
			if dist < 0.5 && res > 0.95 {
				a.Soul.Entangle(b.Soul)
			}
		}
	}
}

// reviewSediments re-runs governance on the sediment tier. Entities whose
// mass has fallen back below the abyss threshold are redeemed into the
// active tier; the rest get inertia-only processing with no field query.
func (w *World) reviewSediments(dt float64) {
	keep := w.sediments[:0]
	redeemed := 0
	for _, e := range w.sediments {
		w.govern(e)

		if e.Physics.Mass <= phi.AbyssThreshold {
			w.active = append(w.active, e)
			redeemed++
			continue
		}

		e.Physics.Velocity = e.Physics.Velocity.Scale(0.9)
		e.Physics.Integrate(dt)
		keep = append(keep, e)
	}
	w.sediments = keep

	if redeemed > 0 {
		slog.Debug("sediments redeemed", "count", redeemed, "tick", w.Tick)
	}
}

// Clone structurally duplicates the world: entities, souls (with entangled
// groups kept mutual), attractors, constants, and torsion. The field solver
// is duplicated when it supports cloning, shared otherwise. Returns an error
// if the tier partition is corrupt, leaving the original untouched.
func (w *World) Clone() (*World, error) {
	cp := &World{
		GravityConstant:  w.GravityConstant,
		CouplingConstant: w.CouplingConstant,
		TimeScale:        w.TimeScale,
		ExpansionRate:    w.ExpansionRate,
		Radius:           w.Radius,
		Tick:             w.Tick,
		Time:             w.Time,
		Field:            w.Field,
		index:            make(map[string]*Entity, len(w.index)),
	}
	if w.Torsion != nil {
		t := *w.Torsion
		cp.Torsion = &t
	}
	if c, ok := w.Field.(field.Cloner); ok {
		cp.Field = c.CloneService()
	}

	seen := make(map[*soul.Tensor]*soul.Tensor)
	for _, e := range w.active {
		ce := e.Clone(seen)
		if _, dup := cp.index[ce.ID]; dup {
			return nil, fmt.Errorf("clone world: duplicate entity id %q", ce.ID)
		}
		cp.index[ce.ID] = ce
		cp.active = append(cp.active, ce)
	}
	for _, e := range w.sediments {
		ce := e.Clone(seen)
		if _, dup := cp.index[ce.ID]; dup {
			return nil, fmt.Errorf("clone world: entity %q present in both tiers", ce.ID)
		}
		cp.index[ce.ID] = ce
		cp.sediments = append(cp.sediments, ce)
	}
	for _, a := range w.attractors {
		cp.attractors = append(cp.attractors, a.Clone(seen))
	}
	return cp, nil
}
