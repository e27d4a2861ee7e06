package engine

import (
	"math"
	"testing"

	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/phi"
)

// scatterPhases registers n souls whose phases cancel on the unit circle,
// far enough apart that they never bond.
func scatterPhases(w *World, n int) {
	for i := 0; i < n; i++ {
		phase := float64(i) / float64(n) * 2 * math.Pi
		w.AddEntity(calmEntity(
			string(rune('a'+i)),
			geom.Vector3{X: float64(i) * 10},
			phase,
		))
	}
}

func TestMetricsAlignedPopulation(t *testing.T) {
	w := newTestWorld()
	w.AddEntity(calmEntity("a", geom.Vector3{}, 1.0))
	w.AddEntity(calmEntity("b", geom.Vector3{X: 50}, 1.0))

	gc := NewConsciousness(w.Physics)
	gc.Step(w, 1.0)

	if !floatNear(gc.AlignmentScore, 1.0) {
		t.Fatalf("alignment of phase-locked souls = %v, want 1", gc.AlignmentScore)
	}
	if !floatNear(gc.GlobalEntropy, 0.0) {
		t.Fatalf("entropy = %v, want 0", gc.GlobalEntropy)
	}
}

func TestMetricsScatteredPopulation(t *testing.T) {
	w := newTestWorld()
	scatterPhases(w, 4)

	gc := NewConsciousness(w.Physics)
	gc.Step(w, 1.0)

	if gc.GlobalEntropy < 0.99 {
		t.Fatalf("entropy of cancelling phases = %v, want ~1", gc.GlobalEntropy)
	}
}

func TestMetricsEmptyWorld(t *testing.T) {
	w := newTestWorld()
	gc := NewConsciousness(w.Physics)
	gc.Step(w, 1.0)

	if gc.GlobalEntropy != 0 {
		t.Fatalf("empty-world entropy = %v, want 0", gc.GlobalEntropy)
	}
}

func TestInterventionRespectsCooldown(t *testing.T) {
	w := newTestWorld()
	scatterPhases(w, 4)
	gc := NewConsciousness(w.Physics)

	// Within the cooldown window nothing happens even at critical entropy.
	w.Tick = 10
	gc.Step(w, 1.0)
	if w.Physics.GravityConstant != 1.0 {
		t.Fatalf("intervened inside cooldown: gravity %v", w.Physics.GravityConstant)
	}

	// Past the window the intervention fires and re-arms the cooldown.
	w.Tick = 51
	gc.Step(w, 1.0)
	if !floatNear(w.Physics.GravityConstant, 1.5) {
		t.Fatalf("gravity = %v, want 1.5", w.Physics.GravityConstant)
	}
	if gc.LastIntervention != 51 {
		t.Fatalf("cooldown anchor = %d, want 51", gc.LastIntervention)
	}

	w.Tick = 60
	gc.Step(w, 1.0)
	if !floatNear(w.Physics.GravityConstant, 1.5) {
		t.Fatal("intervened again inside the refreshed cooldown")
	}
}

func TestInterventionClampsGravity(t *testing.T) {
	w := newTestWorld()
	scatterPhases(w, 4)
	gc := NewConsciousness(w.Physics)
	w.Physics.GravityConstant = 49

	w.Tick = 100
	gc.Step(w, 1.0)
	if w.Physics.GravityConstant != phi.MaxGravity {
		t.Fatalf("gravity = %v, want clamped %v", w.Physics.GravityConstant, phi.MaxGravity)
	}
}

func TestSparkChangeDoublesCoupling(t *testing.T) {
	w := newTestWorld()
	gc := NewConsciousness(w.Physics)

	gc.SparkChange(w)
	if w.Physics.CouplingConstant != 2.0 {
		t.Fatalf("coupling = %v, want 2", w.Physics.CouplingConstant)
	}

	ev := w.DrainEvents()
	if len(ev) != 1 || ev[0].Kind != "spark_change" {
		t.Fatalf("events: %+v", ev)
	}
}

func TestConsciousnessIgnoresSediments(t *testing.T) {
	w := newTestWorld()
	w.AddEntity(calmEntity("a", geom.Vector3{}, 1.0))

	// A maximally detuned soul that sinks on the first physics tick.
	noisy := calmEntity("noisy", geom.Vector3{X: 50}, 4.0)
	noisy.Soul.Frequency = phi.HorizonFrequency + 100
	w.AddEntity(noisy)

	w.Step(1.0)

	gc := NewConsciousness(w.Physics)
	gc.Step(w, 1.0)
	if !floatNear(gc.AlignmentScore, 1.0) {
		t.Fatalf("sediment soul counted in alignment: %v", gc.AlignmentScore)
	}
}
