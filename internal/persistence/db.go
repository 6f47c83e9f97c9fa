// Package persistence stores batch experiment outcomes in SQLite. Only
// run results are persisted, never mid-run simulation state.
package persistence

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for experiment result storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
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
		placement TEXT NOT NULL,
		seed INTEGER NOT NULL,
		grid_size INTEGER NOT NULL,
		num_agents INTEGER NOT NULL,
		emergency_seconds REAL NOT NULL,
		evac_steps INTEGER,
		finished INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_placement ON runs(placement);
	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunRecord is one completed (or capped) simulation run.
type RunRecord struct {
	ID               string  `db:"id"`
	Placement        string  `db:"placement"`
	Seed             int64   `db:"seed"`
	GridSize         int     `db:"grid_size"`
	NumAgents        int     `db:"num_agents"`
	EmergencySeconds float64 `db:"emergency_seconds"`

	// EvacSteps is nil when the step cap was hit before the grid emptied.
	EvacSteps *int64 `db:"evac_steps"`
	Finished  bool   `db:"finished"`
	CreatedAt string `db:"created_at"`
}

// SaveRun inserts one run result.
func (db *DB) SaveRun(r RunRecord) error {
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := db.conn.NamedExec(`INSERT INTO runs
		(id, placement, seed, grid_size, num_agents, emergency_seconds,
		 evac_steps, finished, created_at)
		VALUES (:id, :placement, :seed, :grid_size, :num_agents,
		 :emergency_seconds, :evac_steps, :finished, :created_at)`, r)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

// RunsForPlacement returns every stored run for a placement, oldest first.
func (db *DB) RunsForPlacement(placement string) ([]RunRecord, error) {
	var runs []RunRecord
	err := db.conn.Select(&runs,
		"SELECT * FROM runs WHERE placement = ? ORDER BY created_at, seed", placement)
	if err != nil {
		return nil, fmt.Errorf("select runs for %q: %w", placement, err)
	}
	return runs, nil
}

// RunCount returns the total number of stored runs.
func (db *DB) RunCount() (int, error) {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM runs"); err != nil {
		return 0, err
	}
	return n, nil
}
