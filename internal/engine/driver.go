package engine

import (
	"context"
	"log/slog"
	"time"
)

// Driver paces a world in wall-clock time. The world itself is agnostic to
// pacing — Step can be called as fast as the caller likes — so the driver is
// only a metronome plus a journaling hook.
type Driver struct {
	World    *World
	Speed    float64       // multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // base tick interval
	Dt       float64       // simulation time per tick

	// OnTick fires after each world step, before the next sleep.
	OnTick func(w *World)
}

// NewDriver wraps a world with default pacing: one tick of one time unit
// per 100ms of wall clock.
func NewDriver(w *World) *Driver {
	return &Driver{
		World:    w,
		Speed:    1.0,
		Interval: 100 * time.Millisecond,
		Dt:       1.0,
	}
}

// Run advances the world until the context is canceled.
func (d *Driver) Run(ctx context.Context) {
	slog.Info("engine started", "tick", d.World.Tick, "speed", d.Speed)

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopped", "tick", d.World.Tick)
			return
		default:
		}

		if d.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		d.World.Step(d.Dt)
		if d.OnTick != nil {
			d.OnTick(d.World)
		}

		elapsed := time.Since(start)
		target := time.Duration(float64(d.Interval) / d.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}
}

// RunTicks advances the world a fixed number of ticks without pacing.
func (d *Driver) RunTicks(n int) {
	for i := 0; i < n; i++ {
		d.World.Step(d.Dt)
		if d.OnTick != nil {
			d.OnTick(d.World)
		}
	}
}
