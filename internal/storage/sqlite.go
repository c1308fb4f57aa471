// Package storage provides SQLite-based persistence for run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished run.
type RunRecord struct {
	ID          string
	Seed        int64
	Driver      string
	Preset      string
	Ticks       int
	Distance    float64
	Cleared     int
	Segments    int
	Checkpoints int
	Transitions int
	MaxLevel    int
	Elevation   float64
	ReplayDir   string      // Empty when the run was not recorded
	Towers      map[int]int // Tower type -> count; only filled by RunByID
	CreatedAt   time.Time
}

// DriverStats contains aggregated statistics for one driver.
type DriverStats struct {
	Driver      string
	Runs        int
	BestCleared int
	AvgCleared  float64
	TotalDist   float64
	LastRun     time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			driver TEXT NOT NULL,
			preset TEXT NOT NULL DEFAULT 'normal',
			ticks INTEGER NOT NULL DEFAULT 0,
			distance REAL NOT NULL DEFAULT 0,
			cleared INTEGER NOT NULL DEFAULT 0,
			segments INTEGER NOT NULL DEFAULT 0,
			checkpoints INTEGER NOT NULL DEFAULT 0,
			transitions INTEGER NOT NULL DEFAULT 0,
			max_level INTEGER NOT NULL DEFAULT 0,
			elevation REAL NOT NULL DEFAULT 0,
			replay_dir TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_driver ON runs(driver);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(driver, cleared DESC);

		CREATE TABLE IF NOT EXISTS run_towers (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			tower_type INTEGER NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, tower_type)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run and its tower histogram in one transaction.
// A new ID is generated when r.ID is empty. Returns the run ID.
func (s *Store) SaveRun(r RunRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Preset == "" {
		r.Preset = "normal"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	var replayDir sql.NullString
	if r.ReplayDir != "" {
		replayDir = sql.NullString{String: r.ReplayDir, Valid: true}
	}

	_, err = tx.Exec(
		`INSERT INTO runs
		 (id, seed, driver, preset, ticks, distance, cleared, segments, checkpoints, transitions, max_level, elevation, replay_dir)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Seed, r.Driver, r.Preset, r.Ticks, r.Distance, r.Cleared, r.Segments,
		r.Checkpoints, r.Transitions, r.MaxLevel, r.Elevation, replayDir,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	for towerType, count := range r.Towers {
		if _, err := tx.Exec(
			"INSERT INTO run_towers (run_id, tower_type, count) VALUES (?, ?, ?)",
			r.ID, towerType, count,
		); err != nil {
			return "", fmt.Errorf("storage: cannot save tower counts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return r.ID, nil
}

const runColumns = `id, seed, driver, preset, ticks, distance, cleared, segments,
	checkpoints, transitions, max_level, elevation, replay_dir, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var r RunRecord
	var replayDir sql.NullString
	var createdAt any
	err := row.Scan(
		&r.ID, &r.Seed, &r.Driver, &r.Preset, &r.Ticks, &r.Distance, &r.Cleared, &r.Segments,
		&r.Checkpoints, &r.Transitions, &r.MaxLevel, &r.Elevation, &replayDir, &createdAt,
	)
	if err != nil {
		return RunRecord{}, err
	}
	if replayDir.Valid {
		r.ReplayDir = replayDir.String
	}
	r.CreatedAt = parseTimestamp(createdAt)
	return r, nil
}

// parseTimestamp handles both time.Time and string datetimes.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// TopRuns retrieves the runs that cleared the most segments.
// An empty driver matches every driver.
func (s *Store) TopRuns(driver string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR driver = ?
		 ORDER BY cleared DESC, distance DESC
		 LIMIT ?`,
		driver, driver, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves a run with its tower histogram.
// Returns nil without error when no run has that ID.
func (s *Store) RunByID(id string) (*RunRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("storage: invalid run id %q: %w", id, err)
	}

	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}

	rows, err := s.db.Query("SELECT tower_type, count FROM run_towers WHERE run_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tower counts: %w", err)
	}
	defer rows.Close()

	r.Towers = make(map[int]int)
	for rows.Next() {
		var towerType, count int
		if err := rows.Scan(&towerType, &count); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Towers[towerType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return &r, nil
}

// TowerHistogram sums tower counts over every run of a driver.
// An empty driver matches every driver.
func (s *Store) TowerHistogram(driver string) (map[int]int, error) {
	rows, err := s.db.Query(
		`SELECT t.tower_type, SUM(t.count)
		 FROM run_towers t
		 JOIN runs r ON r.id = t.run_id
		 WHERE ? = '' OR r.driver = ?
		 GROUP BY t.tower_type`,
		driver, driver,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tower histogram: %w", err)
	}
	defer rows.Close()

	hist := make(map[int]int)
	for rows.Next() {
		var towerType, count int
		if err := rows.Scan(&towerType, &count); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		hist[towerType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return hist, nil
}

// AllDriverStats retrieves statistics for every driver that has runs.
func (s *Store) AllDriverStats() (map[string]*DriverStats, error) {
	rows, err := s.db.Query(
		`SELECT driver, COUNT(*), MAX(cleared), AVG(cleared), SUM(distance), MAX(created_at)
		 FROM runs
		 GROUP BY driver`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get driver stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*DriverStats)
	for rows.Next() {
		var ds DriverStats
		var lastRun any
		if err := rows.Scan(&ds.Driver, &ds.Runs, &ds.BestCleared, &ds.AvgCleared, &ds.TotalDist, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ds.LastRun = parseTimestamp(lastRun)
		stats[ds.Driver] = &ds
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRuns deletes every run of a driver.
func (s *Store) ClearRuns(driver string) error {
	if _, err := s.db.Exec(
		"DELETE FROM run_towers WHERE run_id IN (SELECT id FROM runs WHERE driver = ?)", driver,
	); err != nil {
		return fmt.Errorf("storage: cannot clear tower counts: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs WHERE driver = ?", driver); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}
