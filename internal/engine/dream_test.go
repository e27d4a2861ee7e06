package engine

import (
	"math"
	"testing"

	"github.com/talgya/waveworld/internal/geom"
)

func TestDreamStaysAsleepBelowThreshold(t *testing.T) {
	w := newTestWorld()
	gc := NewConsciousness(w.Physics)
	gc.GlobalEntropy = 0.84

	d := NewDream(gc)
	d.simulate = func(fork *World) float64 {
		t.Fatal("dream triggered below threshold")
		return 0
	}

	d.Step(w, 1.0)
	if w.Physics.Torsion != nil {
		t.Fatal("torsion set without a dream")
	}
}

func TestDreamCommitsCalmestFuture(t *testing.T) {
	w := newTestWorld()
	w.AddEntity(calmEntity("a", geom.Vector3{}, 0))

	gc := NewConsciousness(w.Physics)
	gc.GlobalEntropy = 0.9
	w.AddSystem(gc)

	d := NewDream(gc)
	futures := []float64{0.90, 0.55, 0.70}
	call := 0
	d.simulate = func(fork *World) float64 {
		e := futures[call]
		call++
		return e
	}

	w.Tick = 200
	d.Step(w, 1.0)

	if call != 3 {
		t.Fatalf("explored %d futures, want 3", call)
	}
	if w.Physics.Torsion == nil {
		t.Fatal("no torsion committed despite a calm future")
	}

	// The winning hypothesis was the second axis: a quarter-turn about y.
	want := geom.FromAxisAngle(geom.Vector3{Y: 1}, math.Pi/2)
	got := *w.Physics.Torsion
	if !floatNear(got.W, want.W) || !floatNear(got.Y, want.Y) {
		t.Fatalf("committed torsion %+v, want %+v", got, want)
	}

	// Committing resets the consciousness cooldown so the two controllers
	// don't fight over the same crisis.
	if gc.LastIntervention != 200 {
		t.Fatalf("cooldown anchor = %d, want 200", gc.LastIntervention)
	}
	if d.Commits != 1 {
		t.Fatalf("commits = %d, want 1", d.Commits)
	}
}

func TestDreamRejectsChaoticFutures(t *testing.T) {
	w := newTestWorld()
	w.AddEntity(calmEntity("a", geom.Vector3{}, 0))

	gc := NewConsciousness(w.Physics)
	gc.GlobalEntropy = 0.9
	w.AddSystem(gc)

	d := NewDream(gc)
	d.simulate = func(fork *World) float64 { return 0.75 }

	d.Step(w, 1.0)
	if w.Physics.Torsion != nil {
		t.Fatal("committed a future above the entropy ceiling")
	}
	if d.Dreams != 1 || d.Commits != 0 {
		t.Fatalf("dreams=%d commits=%d", d.Dreams, d.Commits)
	}
}

func TestDreamDefaultSimulationRunsFork(t *testing.T) {
	w := newTestWorld()
	scatterPhases(w, 4)

	gc := NewConsciousness(w.Physics)
	w.AddSystem(gc)

	d := NewDream(gc)
	d.SimulationTicks = 5

	fork, err := w.Fork()
	if err != nil {
		t.Fatalf("fork failed: %v", err)
	}

	entropy := d.runSimulation(fork)
	if fork.Tick != 5 {
		t.Fatalf("fork advanced %d ticks, want 5", fork.Tick)
	}
	if w.Tick != 0 {
		t.Fatal("simulating the fork advanced reality")
	}
	if entropy < 0 || entropy > 1 {
		t.Fatalf("entropy %v outside [0,1]", entropy)
	}
}

func TestDreamForkReturnsNil(t *testing.T) {
	d := NewDream(nil)
	if d.Fork(nil) != nil {
		t.Fatal("dream system forked into a dream")
	}
}
