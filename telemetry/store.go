package telemetry

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store persists run summaries and trajectories in SQLite.
type Store struct {
	conn *sqlx.DB
}

// OpenStore opens or creates a SQLite database at the given path.
func OpenStore(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// modernc sqlite serializes writers; one connection avoids busy errors from batch workers.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		light_x INTEGER NOT NULL,
		light_y INTEGER NOT NULL,
		start_x INTEGER NOT NULL,
		start_y INTEGER NOT NULL,
		final_x INTEGER NOT NULL,
		final_y INTEGER NOT NULL,
		initial_distance REAL NOT NULL,
		final_distance REAL NOT NULL,
		distance_traveled REAL NOT NULL,
		steps_taken INTEGER NOT NULL,
		cycles INTEGER NOT NULL,
		reached INTEGER NOT NULL,
		success INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cycles (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		light REAL NOT NULL,
		direction TEXT NOT NULL,
		moved INTEGER NOT NULL,
		north REAL NOT NULL,
		south REAL NOT NULL,
		east REAL NOT NULL,
		west REAL NOT NULL,
		distance REAL NOT NULL,
		PRIMARY KEY (run_id, step)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveRun writes a run summary and its cycles in one transaction.
func (s *Store) SaveRun(summary RunSummary, cycles []CycleRow) error {
	if s == nil {
		return nil
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO runs
		(run_id, seed, width, height, light_x, light_y, start_x, start_y, final_x, final_y,
		 initial_distance, final_distance, distance_traveled, steps_taken, cycles, reached, success)
		VALUES (:run_id, :seed, :width, :height, :light_x, :light_y, :start_x, :start_y, :final_x, :final_y,
		 :initial_distance, :final_distance, :distance_traveled, :steps_taken, :cycles, :reached, :success)`,
		summary); err != nil {
		return fmt.Errorf("insert run %s: %w", summary.RunID, err)
	}

	if len(cycles) > 0 {
		stmt, err := tx.PrepareNamed(`INSERT INTO cycles
			(run_id, step, x, y, light, direction, moved, north, south, east, west, distance)
			VALUES (:run_id, :step, :x, :y, :light, :direction, :moved, :north, :south, :east, :west, :distance)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range cycles {
			if _, err := stmt.Exec(c); err != nil {
				return fmt.Errorf("insert cycle %d of run %s: %w", c.Step, c.RunID, err)
			}
		}
	}

	return tx.Commit()
}

// Run loads one run summary by id.
func (s *Store) Run(runID string) (RunSummary, error) {
	var r RunSummary
	err := s.conn.Get(&r, `SELECT * FROM runs WHERE run_id = ?`, runID)
	return r, err
}

// Runs loads every run summary, ordered by seed.
func (s *Store) Runs() ([]RunSummary, error) {
	var runs []RunSummary
	err := s.conn.Select(&runs, `SELECT * FROM runs ORDER BY seed, run_id`)
	return runs, err
}

// Cycles loads the trajectory of one run in step order.
func (s *Store) Cycles(runID string) ([]CycleRow, error) {
	var rows []CycleRow
	err := s.conn.Select(&rows, `SELECT * FROM cycles WHERE run_id = ? ORDER BY step`, runID)
	return rows, err
}
