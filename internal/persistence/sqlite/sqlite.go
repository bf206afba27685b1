// Package sqlite implements the persistence repositories on top of SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/example/study-scheduler/internal/persistence"
)

// Storage provides SQLite backed implementations of the persistence
// repositories. A single Storage value implements both HistoryRepository
// and PreferenceRepository.
type Storage struct {
	db *sql.DB
}

// Open connects to the SQLite database addressed by dsn.
func Open(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}
	// SQLite handles a single writer; a larger pool only produces
	// SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	return &Storage{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping verifies the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the schema when it does not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS study_sessions (
			id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			status TEXT NOT NULL,
			provider TEXT NOT NULL DEFAULT '',
			provider_event_id TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (user_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_study_sessions_user_start
			ON study_sessions (user_id, start_time)`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id TEXT NOT NULL PRIMARY KEY,
			work_start TEXT NOT NULL,
			work_end TEXT NOT NULL,
			earliest_study TEXT NOT NULL,
			latest_study TEXT NOT NULL,
			min_session_minutes INTEGER NOT NULL,
			morning_first INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: failed to apply migration: %w", err)
		}
	}
	return nil
}

// mapError translates driver errors into persistence sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"),
		strings.Contains(msg, "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}
