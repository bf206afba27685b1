// Package testfixtures provides deterministic clocks, identifier generators
// and fixture builders shared by tests across the module.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/persistence"
	"github.com/example/study-scheduler/internal/scheduling"
)

var (
	sessionCounter    uint64
	preferenceCounter uint64
)

// referenceTime is a Monday morning, chosen so weekday-sensitive logic such
// as study day checks and weekday statistics behaves predictably.
var referenceTime = time.Date(2024, time.March, 4, 6, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ------------------------- Study session fixtures -------------------------

// StudySessionFixture represents a deterministic study session record that
// can be materialised for scheduling, application or persistence tests.
type StudySessionFixture struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	Start           time.Time
	End             time.Time
	Status          scheduling.Status
	Provider        string
	ProviderEventID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StudySessionOption configures the generated study session fixture.
type StudySessionOption func(*StudySessionFixture)

// NewStudySessionFixture returns a deterministic study session fixture with
// optional overrides. Successive fixtures land on successive days so they
// never overlap by accident.
func NewStudySessionFixture(opts ...StudySessionOption) StudySessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	id := fmt.Sprintf("session-%03d", idx)
	start := referenceTime.AddDate(0, 0, int(idx-1)).Add(time.Hour)
	fixture := StudySessionFixture{
		ID:        id,
		UserID:    fmt.Sprintf("user-%03d", idx),
		Title:     "Study Session",
		Start:     start,
		End:       start.Add(time.Hour),
		Status:    scheduling.StatusScheduled,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) StudySessionOption {
	return func(f *StudySessionFixture) {
		f.ID = id
	}
}

// WithSessionUserID sets the owning user.
func WithSessionUserID(userID string) StudySessionOption {
	return func(f *StudySessionFixture) {
		f.UserID = userID
	}
}

// WithSessionTitle overrides the title.
func WithSessionTitle(title string) StudySessionOption {
	return func(f *StudySessionFixture) {
		f.Title = title
	}
}

// WithSessionDescription sets the description.
func WithSessionDescription(description string) StudySessionOption {
	return func(f *StudySessionFixture) {
		f.Description = description
	}
}

// WithSessionStartEnd sets the start and end times.
func WithSessionStartEnd(start, end time.Time) StudySessionOption {
	return func(f *StudySessionFixture) {
		f.Start = start
		f.End = end
	}
}

// WithSessionStatus sets the lifecycle status.
func WithSessionStatus(status scheduling.Status) StudySessionOption {
	return func(f *StudySessionFixture) {
		f.Status = status
	}
}

// WithSessionProviderRef ties the session to a calendar event.
func WithSessionProviderRef(provider, eventID string) StudySessionOption {
	return func(f *StudySessionFixture) {
		f.Provider = provider
		f.ProviderEventID = eventID
	}
}

// WithoutSessionProviderRef clears any calendar event reference.
func WithoutSessionProviderRef() StudySessionOption {
	return func(f *StudySessionFixture) {
		f.Provider = ""
		f.ProviderEventID = ""
	}
}

// WithSessionTimestamps sets both created and updated timestamps.
func WithSessionTimestamps(created, updated time.Time) StudySessionOption {
	return func(f *StudySessionFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Scheduling returns the fixture as a scheduling.Session value.
func (f StudySessionFixture) Scheduling() scheduling.Session {
	var ref *scheduling.ProviderRef
	if f.Provider != "" || f.ProviderEventID != "" {
		ref = &scheduling.ProviderRef{Provider: f.Provider, EventID: f.ProviderEventID}
	}
	return scheduling.Session{
		ID:          f.ID,
		UserID:      f.UserID,
		Title:       f.Title,
		Description: f.Description,
		Start:       f.Start,
		End:         f.End,
		Status:      f.Status,
		ProviderRef: ref,
	}
}

// Persistence returns the fixture as a persistence.SessionRecord value.
func (f StudySessionFixture) Persistence() persistence.SessionRecord {
	return persistence.SessionRecord{
		ID:              f.ID,
		UserID:          f.UserID,
		Title:           f.Title,
		Description:     f.Description,
		Start:           f.Start,
		End:             f.End,
		Status:          string(f.Status),
		Provider:        f.Provider,
		ProviderEventID: f.ProviderEventID,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// Approved returns the fixture as an application.ApprovedSession.
func (f StudySessionFixture) Approved() application.ApprovedSession {
	return application.ApprovedSession{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Start:       f.Start,
		End:         f.End,
	}
}

// LogInput returns the fixture as an application.SessionLogInput.
func (f StudySessionFixture) LogInput() application.SessionLogInput {
	return application.SessionLogInput{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Start:       f.Start,
		End:         f.End,
		Status:      string(f.Status),
	}
}

// -------------------------- Preference fixtures ---------------------------

// PreferenceFixture represents a deterministic set of user preferences.
// Clock times are held as scheduling.TimeOfDay values so conversions never
// fail.
type PreferenceFixture struct {
	UserID            string
	WorkStart         scheduling.TimeOfDay
	WorkEnd           scheduling.TimeOfDay
	EarliestStudy     scheduling.TimeOfDay
	LatestStudy       scheduling.TimeOfDay
	MinSessionMinutes int
	MorningFirst      bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PreferenceOption configures the generated preference fixture.
type PreferenceOption func(*PreferenceFixture)

// NewPreferenceFixture returns a deterministic preference fixture seeded with
// the stock defaults and optional overrides.
func NewPreferenceFixture(opts ...PreferenceOption) PreferenceFixture {
	idx := atomic.AddUint64(&preferenceCounter, 1)
	defaults := scheduling.DefaultPreferences()
	fixture := PreferenceFixture{
		UserID:            fmt.Sprintf("user-%03d", idx),
		WorkStart:         defaults.WorkStart,
		WorkEnd:           defaults.WorkEnd,
		EarliestStudy:     defaults.EarliestStudy,
		LatestStudy:       defaults.LatestStudy,
		MinSessionMinutes: defaults.MinSessionMinutes,
		MorningFirst:      defaults.MorningFirst,
		CreatedAt:         referenceTime,
		UpdatedAt:         referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithPreferenceUserID overrides the owning user.
func WithPreferenceUserID(userID string) PreferenceOption {
	return func(f *PreferenceFixture) {
		f.UserID = userID
	}
}

// WithWorkHours sets the working day boundaries.
func WithWorkHours(start, end scheduling.TimeOfDay) PreferenceOption {
	return func(f *PreferenceFixture) {
		f.WorkStart = start
		f.WorkEnd = end
	}
}

// WithStudyBounds sets the earliest and latest study times.
func WithStudyBounds(earliest, latest scheduling.TimeOfDay) PreferenceOption {
	return func(f *PreferenceFixture) {
		f.EarliestStudy = earliest
		f.LatestStudy = latest
	}
}

// WithMinSessionMinutes sets the minimum session length.
func WithMinSessionMinutes(minutes int) PreferenceOption {
	return func(f *PreferenceFixture) {
		f.MinSessionMinutes = minutes
	}
}

// WithMorningFirst sets the window ordering preference.
func WithMorningFirst(morningFirst bool) PreferenceOption {
	return func(f *PreferenceFixture) {
		f.MorningFirst = morningFirst
	}
}

// WithPreferenceTimestamps sets both created and updated timestamps.
func WithPreferenceTimestamps(created, updated time.Time) PreferenceOption {
	return func(f *PreferenceFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Scheduling returns the fixture as a scheduling.Preferences value.
func (f PreferenceFixture) Scheduling() scheduling.Preferences {
	return scheduling.Preferences{
		WorkStart:         f.WorkStart,
		WorkEnd:           f.WorkEnd,
		EarliestStudy:     f.EarliestStudy,
		LatestStudy:       f.LatestStudy,
		MinSessionMinutes: f.MinSessionMinutes,
		MorningFirst:      f.MorningFirst,
	}
}

// Persistence returns the fixture as a persistence.PreferenceRecord value.
func (f PreferenceFixture) Persistence() persistence.PreferenceRecord {
	return persistence.PreferenceRecord{
		UserID:            f.UserID,
		WorkStart:         f.WorkStart.String(),
		WorkEnd:           f.WorkEnd.String(),
		EarliestStudy:     f.EarliestStudy.String(),
		LatestStudy:       f.LatestStudy.String(),
		MinSessionMinutes: f.MinSessionMinutes,
		MorningFirst:      f.MorningFirst,
		CreatedAt:         f.CreatedAt,
		UpdatedAt:         f.UpdatedAt,
	}
}

// Input returns the fixture as an application.PreferenceInput.
func (f PreferenceFixture) Input() application.PreferenceInput {
	return application.PreferenceInput{
		WorkStart:         f.WorkStart.String(),
		WorkEnd:           f.WorkEnd.String(),
		EarliestStudy:     f.EarliestStudy.String(),
		LatestStudy:       f.LatestStudy.String(),
		MinSessionMinutes: f.MinSessionMinutes,
		MorningFirst:      f.MorningFirst,
	}
}
