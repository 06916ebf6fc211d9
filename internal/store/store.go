// Package store handles SQLite persistence of final mission results.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.

	"WastelandOps/internal/game"
)

// Store wraps SQLite access for the mission result archive. It satisfies
// game.ResultSink.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS mission_results (
			mission_id TEXT PRIMARY KEY,
			victory INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			forced_end INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS mission_result_health (
			mission_id TEXT NOT NULL,
			combatant_id TEXT NOT NULL,
			health REAL NOT NULL,
			PRIMARY KEY (mission_id, combatant_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_mission_results_finished_at ON mission_results(finished_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SaveResult archives a mission's final result. The archive is write-once:
// a second save for the same mission ID is ignored, preserving the first
// outcome.
func (s *Store) SaveResult(missionID string, res game.FinalResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	r, err := tx.Exec(
		`INSERT OR IGNORE INTO mission_results (mission_id, victory, duration_ms, forced_end, finished_at)
		 VALUES (?, ?, ?, ?, ?)`,
		missionID,
		boolToInt(res.Victory),
		res.Duration.Milliseconds(),
		boolToInt(res.ForcedEnd),
		res.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	if n, err := r.RowsAffected(); err == nil && n == 0 {
		// Already archived; keep the original.
		return nil
	}

	for id, health := range res.FinalHealth {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO mission_result_health (mission_id, combatant_id, health) VALUES (?, ?, ?)`,
			missionID, id, health,
		); err != nil {
			return fmt.Errorf("insert health %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Result loads the archived result for a mission. The second return value
// is false when no result has been archived.
func (s *Store) Result(missionID string) (game.FinalResult, bool, error) {
	var (
		victory    int
		durationMS int64
		forced     int
		finishedAt string
	)
	err := s.db.QueryRow(
		`SELECT victory, duration_ms, forced_end, finished_at FROM mission_results WHERE mission_id = ?`,
		missionID,
	).Scan(&victory, &durationMS, &forced, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return game.FinalResult{}, false, nil
	}
	if err != nil {
		return game.FinalResult{}, false, fmt.Errorf("select result: %w", err)
	}

	res := game.FinalResult{
		Victory:     victory != 0,
		Duration:    time.Duration(durationMS) * time.Millisecond,
		ForcedEnd:   forced != 0,
		FinalHealth: make(map[string]float64),
	}
	if ts, perr := time.Parse(time.RFC3339Nano, finishedAt); perr == nil {
		res.FinishedAt = ts
	}

	rows, err := s.db.Query(
		`SELECT combatant_id, health FROM mission_result_health WHERE mission_id = ?`,
		missionID,
	)
	if err != nil {
		return game.FinalResult{}, false, fmt.Errorf("select health: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var health float64
		if err := rows.Scan(&id, &health); err != nil {
			return game.FinalResult{}, false, fmt.Errorf("scan health: %w", err)
		}
		res.FinalHealth[id] = health
	}
	if err := rows.Err(); err != nil {
		return game.FinalResult{}, false, fmt.Errorf("iterate health: %w", err)
	}
	return res, true, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
