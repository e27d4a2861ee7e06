// Command waved runs the resonant wave-world simulation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/talgya/waveworld/internal/chronicle"
	"github.com/talgya/waveworld/internal/engine"
	"github.com/talgya/waveworld/internal/field"
	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/phi"
	"github.com/talgya/waveworld/internal/physics"
	"github.com/talgya/waveworld/internal/soul"
)

func main() {
	seed := flag.Int64("seed", 42, "world seed")
	population := flag.Int("population", 64, "initial soul count")
	ticks := flag.Int("ticks", 0, "run a fixed number of ticks and exit (0 = run until interrupted)")
	speed := flag.Float64("speed", 1.0, "wall-clock speed multiplier")
	dbPath := flag.String("db", "data/chronicle.db", "journal database path")
	journalEvery := flag.Int("journal-every", 10, "ticks between journal rows")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	setupLogging(*verbose)

	slog.Info("waveworld — resonant digital physics")
	slog.Info("emanation constants",
		"phi", phi.Phi,
		"agnosis", fmt.Sprintf("%.5f", phi.Agnosis),
		"matter", fmt.Sprintf("%.5f", phi.Matter),
		"being", fmt.Sprintf("%.5f", phi.Being),
		"totality", fmt.Sprintf("%.5f", phi.Totality),
	)

	// ── Journal ───────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(*dbPath), 0755)
	journal, err := chronicle.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer journal.Close()
	slog.Info("journal opened", "path", *dbPath, "run", journal.RunID)

	// ── World ─────────────────────────────────────────────────────────
	ph := physics.NewWorld(field.NewSimplexField(*seed))
	w := engine.NewWorld(ph)

	ph.AddAttractor(&physics.Attractor{
		ID:     "prime",
		Mass:   100,
		Radius: 5,
		Soul:   soul.New(100, phi.HorizonFrequency, 0),
	})

	rng := rand.New(rand.NewSource(*seed))
	seedPopulation(w, *population, rng)

	gc := engine.NewConsciousness(ph)
	w.AddSystem(gc)
	w.AddSystem(engine.NewDream(gc))

	coil := physics.NewCoil(geom.Vector3{X: 20})
	w.AddSystem(engine.NewCoilSystem(coil, *population*4, *seed+1))

	w.AddSystem(&engine.TopologySystem{
		Paths: []*physics.GravityPath{
			physics.NewGravityPath(
				geom.Vector3{X: -40},
				geom.Vector3{},
				geom.Vector3{X: 20},
			),
		},
		Gates: []*physics.TensorGate{
			physics.NewTensorGate(geom.Vector3{X: 10}),
		},
	})

	w.AddSystem(engine.NewGenesis(*seed + 2))
	w.AddSystem(engine.NewVoid(*seed + 3))

	slog.Info("world ready",
		"souls", len(w.Entities()),
		"radius", ph.Radius,
		"seed", *seed,
	)

	// ── Driver ────────────────────────────────────────────────────────
	driver := engine.NewDriver(w)
	driver.Speed = *speed
	driver.OnTick = func(w *engine.World) {
		if err := journal.RecordEvents(w.DrainEvents()); err != nil {
			slog.Error("journal events failed", "error", err)
		}
		if w.Tick%uint64(*journalEvery) == 0 {
			if err := journal.RecordTick(w, gc); err != nil {
				slog.Error("journal tick failed", "error", err)
			}
			slog.Info("tick",
				"n", w.Tick,
				"souls", len(w.Entities()),
				"sediments", len(ph.Sediments()),
				"entropy", fmt.Sprintf("%.3f", gc.GlobalEntropy),
				"gravity", fmt.Sprintf("%.1f", ph.GravityConstant),
			)
		}
	}

	if *ticks > 0 {
		driver.RunTicks(*ticks)
	} else {
		ctx, cancel := context.WithCancel(context.Background())
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		}()

		fmt.Printf("\nThe world is breathing: %s souls around the prime attractor.\n",
			humanize.Comma(int64(len(w.Entities()))))
		fmt.Println("Starting simulation... (Ctrl+C to stop)")

		driver.Run(ctx)
	}

	printSummary(w, gc)
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

// seedPopulation scatters the initial souls on a ring around the origin,
// tuned near the horizon frequency with seeded jitter.
func seedPopulation(w *engine.World, n int, rng *rand.Rand) {
	for i := 0; i < n; i++ {
		angle := float64(i) / float64(n) * 2 * math.Pi
		radius := 10 + rng.Float64()*20

		s := soul.New(
			10+rng.Float64()*30,
			phi.HorizonFrequency+rng.NormFloat64()*0.5,
			rng.Float64()*2*math.Pi,
		)
		if rng.Intn(2) == 1 {
			s.Spin = -1
		}

		w.AddEntity(&physics.Entity{
			ID:   fmt.Sprintf("soul-%03d", i),
			Soul: s,
			DNA: &soul.WaveDNA{
				Frequency: s.Frequency,
				Phase:     s.Phase,
				Amplitude: s.Amplitude,
				Spin:      s.Spin,
			},
			Physics: physics.State{
				Position: geom.Vector3{
					X: math.Cos(angle) * radius,
					Y: rng.Float64()*4 - 2,
					Z: math.Sin(angle) * radius,
				},
				Mass: 1,
			},
		})
	}
}

func printSummary(w *engine.World, gc *engine.Consciousness) {
	snap := w.Export()

	var totalEnergy float64
	collapsed := 0
	for _, e := range w.Entities() {
		if e.Soul == nil {
			continue
		}
		totalEnergy += e.Soul.TotalEnergy()
		if e.Soul.Collapsed {
			collapsed++
		}
	}

	fmt.Println("\nSimulation stopped.")
	fmt.Printf("  ticks:      %s\n", humanize.Comma(int64(snap.Tick)))
	fmt.Printf("  souls:      %s (%d collapsed, %d sediments)\n",
		humanize.Comma(int64(snap.EntityCount)), collapsed, snap.Sediments)
	fmt.Printf("  energy:     %s\n", humanize.SIWithDigits(totalEnergy, 2, ""))
	fmt.Printf("  entropy:    %.3f (alignment %.3f)\n", gc.GlobalEntropy, gc.AlignmentScore)
	fmt.Printf("  gravity:    %.1f  coupling: %.1f\n", snap.Gravity, snap.Coupling)
	fmt.Printf("  health:     %.2f\n", gc.Health())
}
