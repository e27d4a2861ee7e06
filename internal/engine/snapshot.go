package engine

import (
	"github.com/talgya/waveworld/internal/physics"
)

// EntitySnapshot is the externally visible state of one entity.
type EntitySnapshot struct {
	ID        string  `json:"id"`
	Tier      string  `json:"tier"`
	Amplitude float64 `json:"amplitude"`
	Frequency float64 `json:"frequency"`
	Phase     float64 `json:"phase"`
	Collapsed bool    `json:"collapsed"`
	Emotion   string  `json:"emotion,omitempty"`
	Mass      float64 `json:"mass"`
	Bonds     int     `json:"bonds"`
	Dimension int     `json:"dimension"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
}

// Snapshot is a read-only export of the world at a tick boundary.
type Snapshot struct {
	Tick        uint64           `json:"tick"`
	Time        float64          `json:"time"`
	EntityCount int              `json:"entity_count"`
	Sediments   int              `json:"sediments"`
	Gravity     float64          `json:"gravity"`
	Coupling    float64          `json:"coupling"`
	Radius      float64          `json:"radius"`
	Entities    []EntitySnapshot `json:"entities"`
}

// Export captures the current world state. Safe to call between ticks only.
func (w *World) Export() Snapshot {
	snap := Snapshot{
		Tick:        w.Tick,
		Time:        w.Time,
		EntityCount: len(w.entities),
		Sediments:   len(w.Physics.Sediments()),
		Gravity:     w.Physics.GravityConstant,
		Coupling:    w.Physics.CouplingConstant,
		Radius:      w.Physics.Radius,
	}

	sediment := make(map[string]bool, len(w.Physics.Sediments()))
	for _, e := range w.Physics.Sediments() {
		sediment[e.ID] = true
	}

	for _, e := range w.entities {
		es := snapshotEntity(e)
		if sediment[e.ID] {
			es.Tier = "sediment"
		} else {
			es.Tier = "active"
		}
		snap.Entities = append(snap.Entities, es)
	}
	return snap
}

func snapshotEntity(e *physics.Entity) EntitySnapshot {
	es := EntitySnapshot{
		ID:        e.ID,
		Mass:      e.Physics.Mass,
		Bonds:     len(e.Bonds),
		Dimension: e.Dimension,
		X:         e.Physics.Position.X,
		Y:         e.Physics.Position.Y,
		Z:         e.Physics.Position.Z,
	}
	if e.Soul != nil {
		es.Amplitude = e.Soul.Amplitude
		es.Frequency = e.Soul.Frequency
		es.Phase = e.Soul.Phase
		es.Collapsed = e.Soul.Collapsed
		es.Emotion = e.Soul.DecodeEmotion()
	}
	return es
}
