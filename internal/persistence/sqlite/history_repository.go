package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/study-scheduler/internal/persistence"
)

// UpsertSession inserts a session record or replaces the existing one with
// the same (user_id, id) key. Last write wins.
func (s *Storage) UpsertSession(ctx context.Context, record persistence.SessionRecord) error {
	if record.ID == "" || record.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	record.UpdatedAt = now

	query := `
		INSERT INTO study_sessions (
			id, user_id, title, description, start_time, end_time,
			status, provider, provider_event_id, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			status = excluded.status,
			provider = excluded.provider,
			provider_event_id = excluded.provider_event_id,
			updated_at = excluded.updated_at
	`

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.Title,
		record.Description,
		record.Start.UTC().Format(time.RFC3339),
		record.End.UTC().Format(time.RFC3339),
		record.Status,
		record.Provider,
		record.ProviderEventID,
		createdAt.UTC().Format(time.RFC3339),
		record.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetSession retrieves a single session record by user and session id.
func (s *Storage) GetSession(ctx context.Context, userID, sessionID string) (persistence.SessionRecord, error) {
	query := `
		SELECT id, user_id, title, description, start_time, end_time,
			status, provider, provider_event_id, created_at, updated_at
		FROM study_sessions
		WHERE user_id = ? AND id = ?
	`

	row := s.db.QueryRowContext(ctx, query, userID, sessionID)
	record, err := scanSession(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.SessionRecord{}, persistence.ErrNotFound
		}
		return persistence.SessionRecord{}, mapError(err)
	}
	return record, nil
}

// ListSessions returns a user's session records ordered by start time. Rows
// whose timestamps fail to parse are skipped: a corrupt record is a data
// quality issue, not a reason to fail the listing.
func (s *Storage) ListSessions(ctx context.Context, userID string, filter persistence.SessionFilter) ([]persistence.SessionRecord, error) {
	query := `
		SELECT id, user_id, title, description, start_time, end_time,
			status, provider, provider_event_id, created_at, updated_at
		FROM study_sessions
		WHERE user_id = ?
	`
	args := []any{userID}

	if filter.From != nil {
		query += " AND end_time > ?"
		args = append(args, filter.From.UTC().Format(time.RFC3339))
	}
	if filter.To != nil {
		query += " AND start_time < ?"
		args = append(args, filter.To.UTC().Format(time.RFC3339))
	}
	if len(filter.Statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Statuses)), ", ")
		query += fmt.Sprintf(" AND status IN (%s)", placeholders)
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	query += " ORDER BY start_time ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	records := make([]persistence.SessionRecord, 0)
	for rows.Next() {
		record, err := scanSession(rows.Scan)
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	return records, nil
}

func scanSession(scan func(dest ...any) error) (persistence.SessionRecord, error) {
	var record persistence.SessionRecord
	var startStr, endStr, createdStr, updatedStr string

	if err := scan(
		&record.ID,
		&record.UserID,
		&record.Title,
		&record.Description,
		&startStr,
		&endStr,
		&record.Status,
		&record.Provider,
		&record.ProviderEventID,
		&createdStr,
		&updatedStr,
	); err != nil {
		return persistence.SessionRecord{}, err
	}

	var err error
	if record.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.SessionRecord{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if record.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.SessionRecord{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if record.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return persistence.SessionRecord{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if record.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return persistence.SessionRecord{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return record, nil
}
