package chronicle

import (
	"path/filepath"
	"testing"

	"github.com/talgya/waveworld/internal/engine"
	"github.com/talgya/waveworld/internal/field"
	"github.com/talgya/waveworld/internal/geom"
	"github.com/talgya/waveworld/internal/physics"
	"github.com/talgya/waveworld/internal/soul"
)

type nullField struct{}

func (nullField) UpdateField(samples []field.Sample) {}

func (nullField) SampleField(pos geom.Vector4, tick uint64) geom.Vector4 {
	return geom.Vector4{}
}

func (nullField) LocalForces(pos geom.Vector4, s *soul.Tensor) (geom.Vector4, field.Rotor) {
	return geom.Vector4{}, field.IdentityRotor()
}

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "chronicle.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRoundTrip(t *testing.T) {
	j := openTestJournal(t)

	w := engine.NewWorld(physics.NewWorld(nullField{}))
	gc := engine.NewConsciousness(w.Physics)

	w.EmitEvent("spark", "soul-001")
	w.EmitEvent("void_absorb", "soul-002 (dormancy)")

	if err := j.RecordTick(w, gc); err != nil {
		t.Fatalf("record tick: %v", err)
	}
	if err := j.RecordEvents(w.DrainEvents()); err != nil {
		t.Fatalf("record events: %v", err)
	}

	rows, err := j.RecentEvents(10)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d events, want 2", len(rows))
	}
	// Newest first.
	if rows[0].Kind != "void_absorb" || rows[1].Kind != "spark" {
		t.Fatalf("event order: %+v", rows)
	}
}

func TestJournalRunIsolation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chronicle.db")

	j1, err := Open(path)
	if err != nil {
		t.Fatalf("open first run: %v", err)
	}
	if err := j1.RecordEvents([]engine.Event{{Tick: 1, Kind: "spark", Detail: "x"}}); err != nil {
		t.Fatalf("record: %v", err)
	}
	j1.Close()

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("open second run: %v", err)
	}
	defer j2.Close()

	if j1.RunID == j2.RunID {
		t.Fatal("two runs share an id")
	}
	rows, err := j2.RecentEvents(10)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("second run sees %d events from the first", len(rows))
	}
}

func TestRecordEventsEmpty(t *testing.T) {
	j := openTestJournal(t)
	if err := j.RecordEvents(nil); err != nil {
		t.Fatalf("empty batch errored: %v", err)
	}
}
