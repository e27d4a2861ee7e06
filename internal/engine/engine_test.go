package engine

import (
	"math"
	"testing"

	"github.com/talgya/waveworld/internal/field"
	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/phi"
	"github.com/talgya/waveworld/internal/physics"
	"github.com/talgya/waveworld/internal/soul"
)

// nullField exerts no forces, so tests control motion directly.
type nullField struct{}

func (nullField) UpdateField(samples []field.Sample) {}

func (nullField) SampleField(pos geom.Vector4, tick uint64) geom.Vector4 {
	return geom.Vector4{}
}

func (nullField) LocalForces(pos geom.Vector4, s *soul.Tensor) (geom.Vector4, field.Rotor) {
	return geom.Vector4{}, field.IdentityRotor()
}

func newTestWorld() *World {
	return NewWorld(physics.NewWorld(nullField{}))
}

// calmEntity is tuned to the horizon frequency with zero amplitude, so it
// neither accrues entropy nor propels itself.
func calmEntity(id string, pos geom.Vector3, phase float64) *physics.Entity {
	return &physics.Entity{
		ID:      id,
		Soul:    soul.New(0, phi.HorizonFrequency, phase),
		Physics: physics.State{Position: pos, Mass: 1},
	}
}

func TestWorldStepOrdersAndCounts(t *testing.T) {
	w := newTestWorld()
	w.AddEntity(calmEntity("a", geom.Vector3{}, 0))
	w.AddEntity(calmEntity("b", geom.Vector3{X: 50}, 1))

	w.Step(1.0)
	if w.Tick != 1 || w.Time != 1.0 {
		t.Fatalf("tick=%d time=%v after one step", w.Tick, w.Time)
	}
	if w.Physics.Tick != 1 {
		t.Fatal("physics tick did not advance with the world")
	}

	got := w.Entities()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("iteration order broke: %v, %v", got[0].ID, got[1].ID)
	}
}

func TestWorldStepDilatesTime(t *testing.T) {
	w := newTestWorld()
	w.Physics.TimeScale = 0.5

	e := calmEntity("a", geom.Vector3{}, 0)
	e.Soul.Frequency = 1.0
	w.AddEntity(e)

	w.Step(1.0)
	if !floatNear(w.Time, 0.5) {
		t.Fatalf("world time = %v, want dilated 0.5", w.Time)
	}
	if !floatNear(e.Soul.Phase, 0.5) {
		t.Fatalf("soul phase = %v, want dilated 0.5", e.Soul.Phase)
	}
}

func TestWorldAddEntityIgnoresDuplicates(t *testing.T) {
	w := newTestWorld()
	e := calmEntity("a", geom.Vector3{}, 0)
	w.AddEntity(e)
	w.AddEntity(calmEntity("a", geom.Vector3{X: 9}, 0))

	if len(w.Entities()) != 1 || w.Lookup("a") != e {
		t.Fatal("duplicate id displaced the original entity")
	}
}

func TestDrainEvents(t *testing.T) {
	w := newTestWorld()
	w.EmitEvent("test", "one")
	w.EmitEvent("test", "two")

	ev := w.DrainEvents()
	if len(ev) != 2 || ev[0].Detail != "one" {
		t.Fatalf("drained %d events: %+v", len(ev), ev)
	}
	if len(w.DrainEvents()) != 0 {
		t.Fatal("events not cleared after drain")
	}
}

func TestWorldForkIsIndependent(t *testing.T) {
	w := newTestWorld()
	w.AddEntity(calmEntity("a", geom.Vector3{}, 0))
	w.AddEntity(calmEntity("b", geom.Vector3{X: 50}, 1))

	gc := NewConsciousness(w.Physics)
	w.AddSystem(gc)
	w.AddSystem(NewDream(gc))

	fork, err := w.Fork()
	if err != nil {
		t.Fatalf("fork failed: %v", err)
	}

	if len(fork.Entities()) != 2 {
		t.Fatalf("fork has %d entities, want 2", len(fork.Entities()))
	}
	if fork.Lookup("a") == w.Lookup("a") {
		t.Fatal("fork shares entity pointers with reality")
	}

	// Dreams never nest: the fork drops the dream system but keeps the rest.
	if len(fork.Systems) != 1 {
		t.Fatalf("fork carries %d systems, want 1 (consciousness only)", len(fork.Systems))
	}
	fgc, ok := fork.Systems[0].(*Consciousness)
	if !ok {
		t.Fatalf("surviving system is %T", fork.Systems[0])
	}
	if fgc.Physics != fork.Physics {
		t.Fatal("forked consciousness still observes the real physics")
	}

	fork.Step(1.0)
	if w.Tick != 0 {
		t.Fatal("stepping the fork advanced reality")
	}
}

func floatNear(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
