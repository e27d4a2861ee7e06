// Package chronicle provides an append-only SQLite journal of simulation
// runs: per-tick aggregate rows plus notable events. The journal is
// write-only telemetry — the kernel never reads state back from it.
package chronicle

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/waveworld/internal/engine"
)

// Journal wraps a SQLite connection for one simulation run.
type Journal struct {
	conn  *sqlx.DB
	RunID string
}

// Open opens or creates the journal at path and starts a new run.
func Open(path string) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{conn: conn, RunID: uuid.NewString()}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	return j, nil
}

// Close closes the journal connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ticks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		sim_time REAL NOT NULL,
		entities INTEGER NOT NULL,
		sediments INTEGER NOT NULL,
		entropy REAL NOT NULL,
		alignment REAL NOT NULL,
		gravity REAL NOT NULL,
		coupling REAL NOT NULL,
		radius REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		kind TEXT NOT NULL,
		detail TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ticks_run ON ticks(run_id, tick);
	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, tick);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// RecordTick appends one aggregate row for the current tick.
func (j *Journal) RecordTick(w *engine.World, gc *engine.Consciousness) error {
	entropy, alignment := 0.0, 0.0
	if gc != nil {
		entropy = gc.GlobalEntropy
		alignment = gc.AlignmentScore
	}

	_, err := j.conn.Exec(`INSERT INTO ticks
		(run_id, tick, sim_time, entities, sediments, entropy, alignment, gravity, coupling, radius)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.RunID, w.Tick, w.Time,
		len(w.Entities()), len(w.Physics.Sediments()),
		entropy, alignment,
		w.Physics.GravityConstant, w.Physics.CouplingConstant, w.Physics.Radius,
	)
	if err != nil {
		return fmt.Errorf("record tick %d: %w", w.Tick, err)
	}
	return nil
}

// RecordEvents appends a batch of events in one transaction.
func (j *Journal) RecordEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := j.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, tick, kind, detail) VALUES (?, ?, ?, ?)",
			j.RunID, e.Tick, e.Kind, e.Detail,
		)
		if err != nil {
			return fmt.Errorf("record event %q: %w", e.Kind, err)
		}
	}

	return tx.Commit()
}

// EventRow is one journaled event.
type EventRow struct {
	Tick   uint64 `db:"tick"`
	Kind   string `db:"kind"`
	Detail string `db:"detail"`
}

// RecentEvents returns the most recent events of the current run, newest
// first. Diagnostic use only.
func (j *Journal) RecentEvents(limit int) ([]EventRow, error) {
	var rows []EventRow
	err := j.conn.Select(&rows,
		"SELECT tick, kind, detail FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		j.RunID, limit,
	)
	return rows, err
}
