// Package persistence provides the SQLite event journal. A town is always
// regenerated from (width, height, seed); only run metadata and the event
// stream are stored.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mini-town/internal/events"
)

// DB wraps a SQLite connection for the journal.
type DB struct {
	conn *sqlx.DB
}

// Run describes one simulation run.
type Run struct {
	ID        string `db:"id" json:"id"`
	Seed      int64  `db:"seed" json:"seed"`
	Width     int    `db:"width" json:"width"`
	Height    int    `db:"height" json:"height"`
	Location  string `db:"location" json:"location"`
	StartedAt string `db:"started_at" json:"started_at"`
}

// NewRun creates run metadata with a fresh identifier.
func NewRun(seed int64, width, height int, location string) Run {
	return Run{
		ID:        uuid.NewString(),
		Seed:      seed,
		Width:     width,
		Height:    height,
		Location:  location,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		location TEXT NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		frame INTEGER NOT NULL,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		location TEXT NOT NULL,
		amount INTEGER NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, id);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun records run metadata.
func (db *DB) SaveRun(r Run) error {
	_, err := db.conn.NamedExec(`INSERT INTO runs (id, seed, width, height, location, started_at)
		VALUES (:id, :seed, :width, :height, :location, :started_at)`, r)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.ID, err)
	}
	slog.Info("run recorded", "run", r.ID, "seed", r.Seed)
	return nil
}

// GetRun loads run metadata by identifier.
func (db *DB) GetRun(id string) (Run, error) {
	var r Run
	if err := db.conn.Get(&r, "SELECT id, seed, width, height, location, started_at FROM runs WHERE id = ?", id); err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// Runs lists every recorded run, newest first.
func (db *DB) Runs() ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT id, seed, width, height, location, started_at FROM runs ORDER BY started_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// SaveEvents appends events to a run's journal.
func (db *DB) SaveEvents(runID string, evs []events.Event) error {
	if len(evs) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO events (run_id, frame, kind, source, location, amount, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range evs {
		if _, err := stmt.Exec(runID, e.Frame, string(e.Kind), e.Source, e.Location, e.Amount, e.Description); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

// RecentEvents returns up to limit of a run's newest events, oldest first.
func (db *DB) RecentEvents(runID string, limit int) ([]events.Event, error) {
	var evs []events.Event
	err := db.conn.Select(&evs, `SELECT frame, kind, source, location, amount, description FROM (
			SELECT id, frame, kind, source, location, amount, description
			FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		runID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	return evs, nil
}

// CountEvents returns how many events of kind a run has journaled.
func (db *DB) CountEvents(runID string, kind events.Kind) (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM events WHERE run_id = ? AND kind = ?", runID, string(kind))
	return n, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
