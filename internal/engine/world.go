// Package engine holds the world registry, the global systems that run after
// physics each tick (consciousness, dreaming, genesis, void), and the loop
// driver that paces the whole simulation.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/waveworld/internal/physics"
)

// System is global logic run once per tick after entities and physics.
// Fork produces the system's counterpart for a hypothetical world whose
// physics is ph; returning nil excludes the system from forks.
type System interface {
	Step(w *World, dt float64)
	Fork(ph *physics.World) System
}

// Event is one notable occurrence inside a tick, drained by the caller for
// journaling.
type Event struct {
	Tick   uint64
	Kind   string
	Detail string
	At     time.Time
}

// World is the registry tying entities, physics, and systems together.
// Entity iteration order is insertion order; that ordering is load-bearing
// for deterministic tie-breaks downstream.
type World struct {
	Time float64
	Tick uint64

	Physics *physics.World
	Systems []System

	entities []*physics.Entity
	index    map[string]*physics.Entity

	events []Event
}

// NewWorld wraps a physics world in a registry.
func NewWorld(ph *physics.World) *World {
	return &World{
		Physics: ph,
		index:   make(map[string]*physics.Entity),
	}
}

// AddEntity registers an entity with the world and its physics. Duplicate
// ids are ignored.
func (w *World) AddEntity(e *physics.Entity) {
	if _, ok := w.index[e.ID]; ok {
		return
	}
	w.index[e.ID] = e
	w.entities = append(w.entities, e)
	w.Physics.Register(e)
}

// RemoveEntity unregisters an entity everywhere.
func (w *World) RemoveEntity(id string) {
	if _, ok := w.index[id]; !ok {
		return
	}
	delete(w.index, id)
	for i, e := range w.entities {
		if e.ID == id {
			w.entities = append(w.entities[:i], w.entities[i+1:]...)
			break
		}
	}
	w.Physics.Remove(id)
}

// AddSystem appends a system; systems run in registration order.
func (w *World) AddSystem(s System) {
	w.Systems = append(w.Systems, s)
}

// Lookup returns the entity with the given id, or nil.
func (w *World) Lookup(id string) *physics.Entity {
	return w.index[id]
}

// Entities returns all registered entities in insertion order. Callers must
// not mutate the slice.
func (w *World) Entities() []*physics.Entity {
	return w.entities
}

// EmitEvent records an occurrence for the journal.
func (w *World) EmitEvent(kind, detail string) {
	w.events = append(w.events, Event{
		Tick:   w.Tick,
		Kind:   kind,
		Detail: detail,
		At:     time.Now(),
	})
}

// DrainEvents returns the accumulated events and clears the buffer.
func (w *World) DrainEvents() []Event {
	ev := w.events
	w.events = nil
	return ev
}

// Step advances the world one tick: soul evolution for every entity in
// insertion order, then the physics loop, then each system. The physics
// time scale dilates dt for the whole tick.
func (w *World) Step(dt float64) {
	dt *= w.Physics.TimeScale

	w.Time += dt
	w.Tick++

	for _, e := range w.entities {
		if e.Soul != nil {
			e.Soul.Step(dt)
		}
		if e.DNA != nil {
			e.DNA.Evolve(dt)
		}
	}

	w.Physics.Step(dt)

	for _, s := range w.Systems {
		s.Step(w, dt)
	}
}

// Fork structurally clones the world for a what-if rollout: physics and
// entities are duplicated, and each system contributes its own fork (or
// excludes itself by returning nil). The fork shares nothing mutable with
// the original.
func (w *World) Fork() (*World, error) {
	ph, err := w.Physics.Clone()
	if err != nil {
		return nil, fmt.Errorf("fork world: %w", err)
	}

	cp := NewWorld(ph)
	cp.Time = w.Time
	cp.Tick = w.Tick

	// The physics clone already duplicated every entity; the registry just
	// re-binds to the copies in the original insertion order.
	for _, e := range w.entities {
		ce := ph.Lookup(e.ID)
		if ce == nil {
			return nil, fmt.Errorf("fork world: entity %q missing from physics clone", e.ID)
		}
		cp.index[ce.ID] = ce
		cp.entities = append(cp.entities, ce)
	}

	for _, s := range w.Systems {
		if fs := s.Fork(ph); fs != nil {
			cp.Systems = append(cp.Systems, fs)
		}
	}

	slog.Debug("world forked", "tick", w.Tick, "entities", len(cp.entities))
	return cp, nil
}
