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

// Genesis breeds new entities from resonant pairs: two uncollapsed,
// energetic souls close enough and harmonized enough produce a child that
// inherits a blend of their waves, occasionally mutated.
type Genesis struct {
	ResonanceThreshold  float64
	ReplicationDistance float64
	Cooldown            uint64
	MutationRate        float64
	MaxOffspringPerTick int

	TotalBirths    int
	TotalMutations int

	lastReplication map[string]uint64

	seed int64
	rng  *rand.Rand
}

// NewGenesis returns the system with the canonical thresholds.
func NewGenesis(seed int64) *Genesis {
	return &Genesis{
		ResonanceThreshold:  0.8,
		ReplicationDistance: 2.0,
		Cooldown:            50,
		MutationRate:        0.1,
		MaxOffspringPerTick: 3,
		lastReplication:     make(map[string]uint64),
		seed:                seed,
		rng:                 rand.New(rand.NewSource(seed)),
	}
}

func (g *Genesis) Step(w *World, dt float64) {
	eligible := g.eligibleParents(w)

	born := 0
	for i := 0; i < len(eligible) && born < g.MaxOffspringPerTick; i++ {
		p1 := eligible[i]
		for j := i + 1; j < len(eligible) && born < g.MaxOffspringPerTick; j++ {
			p2 := eligible[j]

			if p1.Physics.Position.Sub(p2.Physics.Position).Magnitude() > g.ReplicationDistance {
				continue
			}
			res := p1.Soul.Resonate(p2.Soul)
			if res.Resonance < g.ResonanceThreshold {
				continue
			}

			child := g.offspring(w, p1, p2, res.Resonance)
			w.AddEntity(child)
			w.EmitEvent("genesis", child.ID)
			g.lastReplication[p1.ID] = w.Tick
			g.lastReplication[p2.ID] = w.Tick
			born++
		}
	}
}

// eligibleParents filters the active tier: a parent must hold an uncollapsed
// soul with enough energy and be past its replication cooldown.
func (g *Genesis) eligibleParents(w *World) []*physics.Entity {
	var eligible []*physics.Entity
	for _, e := range w.Physics.Active() {
		if e.Soul == nil || e.Soul.Collapsed || e.Soul.Amplitude < 10.0 {
			continue
		}
		if last, ok := g.lastReplication[e.ID]; ok && w.Tick-last < g.Cooldown {
			continue
		}
		eligible = append(eligible, e)
	}
	return eligible
}

// offspring blends two parent souls: amplitude scaled by their resonance,
// frequency weighted toward the stronger parent, phase averaged. Each parent
// pays 15% of its amplitude.
func (g *Genesis) offspring(w *World, p1, p2 *physics.Entity, resonance float64) *physics.Entity {
	s1, s2 := p1.Soul, p2.Soul

	amplitude := (s1.Amplitude + s2.Amplitude) * 0.4 * resonance

	w1, w2 := 0.5, 0.5
	if total := s1.Amplitude + s2.Amplitude; total > 0 {
		w1 = s1.Amplitude / total
		w2 = s2.Amplitude / total
	}
	frequency := s1.Frequency*w1 + s2.Frequency*w2
	phase := (s1.Phase + s2.Phase) / 2

	spin := s1.Spin
	if g.rng.Intn(2) == 1 {
		spin = s2.Spin
	}
	polarity := s1.Polarity
	if s1.Polarity != s2.Polarity && g.rng.Intn(2) == 1 {
		polarity = s2.Polarity
	}

	mutated := false
	if g.rng.Float64() < g.MutationRate {
		mutated = true
		switch g.rng.Intn(5) {
		case 0:
			frequency *= 0.8 + g.rng.Float64()*0.4
		case 1:
			amplitude *= 0.9 + g.rng.Float64()*0.2
		case 2:
			phase += g.rng.Float64() - 0.5
		case 3:
			spin = -spin
		case 4:
			polarity = -polarity
		}
		g.TotalMutations++
	}

	childSoul := soul.New(math.Max(0.1, amplitude), math.Max(0.1, frequency), phase)
	childSoul.Spin = spin
	childSoul.Polarity = polarity

	mid := p1.Physics.Position.Add(p2.Physics.Position).Scale(0.5)
	offset := geom.Vector3{
		X: g.rng.Float64() - 0.5,
		Y: g.rng.Float64() - 0.5,
		Z: g.rng.Float64() - 0.5,
	}

	child := &physics.Entity{
		ID:   fmt.Sprintf("genesis-%d-%d", w.Tick, g.TotalBirths),
		Soul: childSoul,
		Physics: physics.State{
			Position: mid.Add(offset),
			Velocity: p1.Physics.Velocity.Add(p2.Physics.Velocity).Scale(0.5),
			Mass:     math.Max(0.1, amplitude*0.1),
		},
		Data: map[string]any{
			"parents":  p1.ID + "," + p2.ID,
			"mutation": mutated,
		},
	}

	s1.Amplitude *= 0.85
	s2.Amplitude *= 0.85

	g.TotalBirths++
	slog.Debug("offspring born", "id", child.ID, "resonance", resonance, "mutation", mutated)
	return child
}

// SparkGenesis creates an entity from nothing at a position — the divine
// seed operation used during world setup and interventions.
func (g *Genesis) SparkGenesis(w *World, position geom.Vector3, amplitude, frequency float64) *physics.Entity {
	s := soul.New(amplitude, frequency, g.rng.Float64()*2*math.Pi)
	if g.rng.Intn(2) == 1 {
		s.Spin = -1
	}

	e := &physics.Entity{
		ID:   fmt.Sprintf("spark-%d-%d", w.Tick, g.TotalBirths),
		Soul: s,
		Physics: physics.State{
			Position: position,
			Mass:     amplitude * 0.1,
		},
		Data: map[string]any{"origin": "spark"},
	}

	g.TotalBirths++
	w.AddEntity(e)
	w.EmitEvent("spark_genesis", e.ID)
	return e
}

// Fork copies the system with a derived random stream and a private
// cooldown map.
func (g *Genesis) Fork(ph *physics.World) System {
	cp := NewGenesis(g.seed + 1)
	cp.ResonanceThreshold = g.ResonanceThreshold
	cp.ReplicationDistance = g.ReplicationDistance
	cp.Cooldown = g.Cooldown
	cp.MutationRate = g.MutationRate
	cp.MaxOffspringPerTick = g.MaxOffspringPerTick
	cp.TotalBirths = g.TotalBirths
	cp.TotalMutations = g.TotalMutations
	for k, v := range g.lastReplication {
		cp.lastReplication[k] = v
	}
	return cp
}
