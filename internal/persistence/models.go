package persistence

import "time"

// SessionRecord is the stored form of a study session, keyed by user.
type SessionRecord struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	Start           time.Time
	End             time.Time
	Status          string
	Provider        string
	ProviderEventID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PreferenceRecord is the stored form of a user's scheduling preferences.
// Clock times are stored as "HH:MM" strings.
type PreferenceRecord struct {
	UserID            string
	WorkStart         string
	WorkEnd           string
	EarliestStudy     string
	LatestStudy       string
	MinSessionMinutes int
	MorningFirst      bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SessionFilter narrows session history queries. Nil bounds leave the
// corresponding side open; an empty status list matches every status.
type SessionFilter struct {
	From     *time.Time
	To       *time.Time
	Statuses []string
}
