package persistence

import "context"

// HistoryRepository stores study session records keyed by user. Upserts are
// idempotent by session id; the last write wins.
type HistoryRepository interface {
	UpsertSession(ctx context.Context, record SessionRecord) error
	GetSession(ctx context.Context, userID, sessionID string) (SessionRecord, error)
	ListSessions(ctx context.Context, userID string, filter SessionFilter) ([]SessionRecord, error)
}

// PreferenceRepository stores per-user scheduling preferences.
type PreferenceRepository interface {
	GetPreferences(ctx context.Context, userID string) (PreferenceRecord, error)
	SavePreferences(ctx context.Context, record PreferenceRecord) error
}
