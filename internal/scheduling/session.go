package scheduling

import "time"

// Status describes where a study session sits in its lifecycle.
type Status string

const (
	// StatusProposed marks an in-memory proposal not yet committed anywhere.
	StatusProposed Status = "proposed"
	// StatusScheduled marks a session accepted by the external calendar.
	StatusScheduled Status = "scheduled"
	// StatusRescheduled marks a session moved by conflict resolution.
	StatusRescheduled Status = "rescheduled"
	// StatusCancelled marks a session conflict resolution could not place.
	// Cancelled is terminal; cancelled sessions are never mutated again.
	StatusCancelled Status = "cancelled"
	// StatusCompleted is only ever set by an external actor.
	StatusCompleted Status = "completed"
)

// ProviderRef ties a session to the calendar event backing it.
type ProviderRef struct {
	Provider string
	EventID  string
}

// Session is a study session event. Sessions are created as proposals by the
// proposal generator and promoted to scheduled once an external calendar
// accepts them.
type Session struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Status      Status
	ProviderRef *ProviderRef
}

// DurationMinutes returns the session length in whole minutes.
func (s Session) DurationMinutes() int {
	if !s.End.After(s.Start) {
		return 0
	}
	return int(s.End.Sub(s.Start) / time.Minute)
}

// Active reports whether the session still occupies calendar time, i.e. it
// has been scheduled and not cancelled since.
func (s Session) Active() bool {
	return s.Status == StatusScheduled || s.Status == StatusRescheduled
}
