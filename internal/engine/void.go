package engine

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/physics"
	"github.com/talgya/waveworld/internal/soul"
)

// Void is where spent souls return and new potential emerges: it absorbs
// depleted, dormant, or out-of-bounds entities, recycles half their energy
// into a reservoir, and occasionally spends the reservoir on a vacuum
// fluctuation — a spontaneous new entity.
type Void struct {
	CleanupThreshold float64 // minimum amplitude to stay alive
	DormancyTicks    uint64  // inactivity before absorption
	RecyclingRate    float64 // fraction of energy recovered
	EmergenceRate    float64 // vacuum fluctuation probability per tick

	RecycledEnergy float64
	Absorbed       int
	Births         int

	lastActivity map[string]uint64

	seed int64
	rng  *rand.Rand
}

// NewVoid returns the system with the canonical thresholds.
func NewVoid(seed int64) *Void {
	return &Void{
		CleanupThreshold: 0.1,
		DormancyTicks:    100,
		RecyclingRate:    0.5,
		EmergenceRate:    0.01,
		lastActivity:     make(map[string]uint64),
		seed:             seed,
		rng:              rand.New(rand.NewSource(seed)),
	}
}

// activityVelocityThreshold is the minimum speed that counts as movement.
const activityVelocityThreshold = 0.01

func (v *Void) Step(w *World, dt float64) {
	v.trackActivity(w)

	for _, id := range v.identifyForCleanup(w) {
		v.absorb(w, id)
	}

	if v.rng.Float64() < v.EmergenceRate {
		v.vacuumFluctuation(w)
	}
}

// trackActivity stamps every entity that is moving or still quantum.
func (v *Void) trackActivity(w *World) {
	for _, e := range w.Entities() {
		if e.Soul == nil {
			continue
		}
		active := e.Physics.Velocity.Magnitude() > activityVelocityThreshold ||
			!e.Soul.Collapsed
		if active {
			v.lastActivity[e.ID] = w.Tick
		}
	}
}

// identifyForCleanup collects entities due for absorption: energy depleted,
// dormant past the limit, or drifted beyond the world horizon. Crystallized
// entities are protected.
func (v *Void) identifyForCleanup(w *World) []string {
	var doomed []string
	for _, e := range w.Entities() {
		if e.Soul == nil {
			continue
		}

		reason := ""
		if e.Soul.Amplitude < v.CleanupThreshold {
			reason = "energy_depleted"
		}

		last, ok := v.lastActivity[e.ID]
		if !ok {
			last = w.Tick
		}
		if w.Tick-last > v.DormancyTicks {
			reason = "dormancy"
		}

		if e.Physics.Position.Magnitude() > w.Physics.Radius {
			reason = "beyond_horizon"
		}

		if reason == "" {
			continue
		}
		if crystallized, _ := e.Data["crystallized"].(bool); crystallized {
			continue
		}

		if e.Data == nil {
			e.Data = make(map[string]any)
		}
		e.Data["void_reason"] = reason
		doomed = append(doomed, e.ID)
	}
	return doomed
}

// absorb removes an entity and banks part of its energy.
func (v *Void) absorb(w *World, id string) {
	e := w.Lookup(id)
	if e == nil {
		return
	}

	reason, _ := e.Data["void_reason"].(string)
	if e.Soul != nil {
		v.RecycledEnergy += e.Soul.Amplitude * v.RecyclingRate
	}
	v.Absorbed++
	delete(v.lastActivity, id)
	w.RemoveEntity(id)

	slog.Debug("entity absorbed into the void", "id", id, "reason", reason)
	w.EmitEvent("void_absorb", fmt.Sprintf("%s (%s)", id, reason))
}

// vacuumFluctuation spends reservoir energy on a spontaneous entity near an
// existing one (or at the origin in an empty world).
func (v *Void) vacuumFluctuation(w *World) {
	if v.RecycledEnergy < 10.0 {
		return
	}

	var position geom.Vector3
	if entities := w.Entities(); len(entities) > 0 {
		base := entities[v.rng.Intn(len(entities))].Physics.Position
		position = base.Add(geom.Vector3{
			X: v.rng.Float64()*10 - 5,
			Y: v.rng.Float64()*10 - 5,
			Z: v.rng.Float64()*10 - 5,
		})
	}

	energy := math.Min(v.RecycledEnergy*0.3, 20.0)
	s := soul.New(energy, 50+v.rng.Float64()*150, v.rng.Float64()*2*math.Pi)
	if v.rng.Intn(2) == 1 {
		s.Spin = -1
	}

	e := &physics.Entity{
		ID:   fmt.Sprintf("void-spawn-%d", w.Tick),
		Soul: s,
		Physics: physics.State{
			Position: position,
			Mass:     math.Max(0.1, energy*0.1),
		},
		Data: map[string]any{"origin": "void"},
	}

	v.RecycledEnergy -= energy
	v.Births++
	w.AddEntity(e)
	w.EmitEvent("void_birth", e.ID)
}

// InjectEnergy adds directly to the void reservoir.
func (v *Void) InjectEnergy(amount float64) {
	v.RecycledEnergy += amount
}

// Fork copies the system with a derived random stream.
func (v *Void) Fork(ph *physics.World) System {
	cp := NewVoid(v.seed + 1)
	cp.CleanupThreshold = v.CleanupThreshold
	cp.DormancyTicks = v.DormancyTicks
	cp.RecyclingRate = v.RecyclingRate
	cp.EmergenceRate = v.EmergenceRate
	cp.RecycledEnergy = v.RecycledEnergy
	cp.Absorbed = v.Absorbed
	cp.Births = v.Births
	for k, t := range v.lastActivity {
		cp.lastActivity[k] = t
	}
	return cp
}
