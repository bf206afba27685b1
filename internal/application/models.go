// Package application orchestrates the scheduling engine, calendar access and
// persistence into the operations the transport layer exposes.
package application

import (
	"time"

	"github.com/example/study-scheduler/internal/interval"
	"github.com/example/study-scheduler/internal/scheduling"
)

// FreeSlotsResult is the outcome of a free slot computation for one day.
// ProviderErrors lists calendar backends that could not be queried; the slots
// reflect whatever busy data was available.
type FreeSlotsResult struct {
	UserID           string
	Date             time.Time
	Slots            []interval.Interval
	TotalFreeMinutes int
	ProviderErrors   []string
}

// DayProposals groups the proposed sessions generated for a single day.
type DayProposals struct {
	Date     time.Time
	Sessions []scheduling.Session
}

// ProposalResult is the outcome of proposal generation over a date range.
// Proposals are in-memory only; nothing is persisted or pushed to a calendar
// until the caller approves them.
type ProposalResult struct {
	UserID         string
	From           time.Time
	To             time.Time
	Days           []DayProposals
	TotalMinutes   int
	ProviderErrors []string
}

// ApprovedSession is a proposal the user accepted and wants committed to a
// calendar.
type ApprovedSession struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// SessionFailure records a per-session error from a batch operation.
type SessionFailure struct {
	SessionID string
	Reason    string
}

// ScheduleResult is the outcome of committing approved sessions. A failed
// session never blocks the rest of the batch.
type ScheduleResult struct {
	UserID    string
	Scheduled []scheduling.Session
	Failed    []SessionFailure
}

// ResolutionResult is the outcome of a conflict resolution pass.
type ResolutionResult struct {
	UserID         string
	Rescheduled    []scheduling.Session
	Cancelled      []scheduling.Session
	Unchanged      int
	Failed         []SessionFailure
	ProviderErrors []string
}

// PreferencesView is the external representation of a user's preferences.
// Clock times are rendered as "HH:MM".
type PreferencesView struct {
	UserID            string
	WorkStart         string
	WorkEnd           string
	EarliestStudy     string
	LatestStudy       string
	MinSessionMinutes int
	MorningFirst      bool
}

// PreferenceInput carries a full replacement of a user's preferences.
type PreferenceInput struct {
	WorkStart         string
	WorkEnd           string
	EarliestStudy     string
	LatestStudy       string
	MinSessionMinutes int
	MorningFirst      bool
}

// SessionLogInput records a study session directly into history, bypassing
// the proposal flow. An empty ID lets the service generate one; an empty
// status defaults to completed.
type SessionLogInput struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Status      string
}

// StatisticsResult summarises completed study sessions over a period.
type StatisticsResult struct {
	UserID               string
	Period               string
	From                 *time.Time
	TotalSessions        int
	TotalMinutes         int
	AverageMinutes       float64
	WeeklyAverageMinutes float64
	MinutesByWeekday     map[string]int
	MinutesByTimeOfDay   map[string]int
}
