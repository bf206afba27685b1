package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/study-scheduler/internal/persistence"
)

// GetPreferences retrieves the stored preferences for a user.
func (s *Storage) GetPreferences(ctx context.Context, userID string) (persistence.PreferenceRecord, error) {
	query := `
		SELECT user_id, work_start, work_end, earliest_study, latest_study,
			min_session_minutes, morning_first, created_at, updated_at
		FROM user_preferences
		WHERE user_id = ?
	`

	var record persistence.PreferenceRecord
	var morningFirst int
	var createdStr, updatedStr string

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&record.UserID,
		&record.WorkStart,
		&record.WorkEnd,
		&record.EarliestStudy,
		&record.LatestStudy,
		&record.MinSessionMinutes,
		&morningFirst,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.PreferenceRecord{}, persistence.ErrNotFound
		}
		return persistence.PreferenceRecord{}, mapError(err)
	}

	record.MorningFirst = morningFirst != 0
	if record.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return persistence.PreferenceRecord{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if record.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return persistence.PreferenceRecord{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return record, nil
}

// SavePreferences stores or replaces a user's preferences.
func (s *Storage) SavePreferences(ctx context.Context, record persistence.PreferenceRecord) error {
	if record.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	morningFirst := 0
	if record.MorningFirst {
		morningFirst = 1
	}

	query := `
		INSERT INTO user_preferences (
			user_id, work_start, work_end, earliest_study, latest_study,
			min_session_minutes, morning_first, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			work_start = excluded.work_start,
			work_end = excluded.work_end,
			earliest_study = excluded.earliest_study,
			latest_study = excluded.latest_study,
			min_session_minutes = excluded.min_session_minutes,
			morning_first = excluded.morning_first,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		record.UserID,
		record.WorkStart,
		record.WorkEnd,
		record.EarliestStudy,
		record.LatestStudy,
		record.MinSessionMinutes,
		morningFirst,
		createdAt.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}
