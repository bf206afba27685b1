package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/study-scheduler/internal/persistence"
	"github.com/example/study-scheduler/internal/scheduling"
)

// PreferenceService manages per-user scheduling preferences.
type PreferenceService struct {
	preferences persistence.PreferenceRepository
	now         func() time.Time
}

// NewPreferenceService wires dependencies for preference operations.
func NewPreferenceService(preferences persistence.PreferenceRepository, now func() time.Time) *PreferenceService {
	if now == nil {
		now = time.Now
	}
	return &PreferenceService{preferences: preferences, now: now}
}

// Get returns the user's stored preferences, or the defaults when none have
// been saved yet.
func (s *PreferenceService) Get(ctx context.Context, userID string) (PreferencesView, error) {
	if s == nil {
		return PreferencesView{}, fmt.Errorf("PreferenceService is nil")
	}
	if userID == "" {
		vErr := &ValidationError{}
		vErr.add("user_id", "user id is required")
		return PreferencesView{}, vErr
	}

	if s.preferences == nil {
		return viewFromPreferences(userID, scheduling.DefaultPreferences()), nil
	}

	record, err := s.preferences.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return viewFromPreferences(userID, scheduling.DefaultPreferences()), nil
		}
		return PreferencesView{}, err
	}

	return PreferencesView{
		UserID:            record.UserID,
		WorkStart:         record.WorkStart,
		WorkEnd:           record.WorkEnd,
		EarliestStudy:     record.EarliestStudy,
		LatestStudy:       record.LatestStudy,
		MinSessionMinutes: record.MinSessionMinutes,
		MorningFirst:      record.MorningFirst,
	}, nil
}

// Update validates and stores a full replacement of the user's preferences.
//
// Only the individual clock times and the minimum session length are
// validated. An ordering such as work start after work end is accepted: it
// collapses the affected study window rather than failing the request.
func (s *PreferenceService) Update(ctx context.Context, userID string, input PreferenceInput) (PreferencesView, error) {
	if s == nil {
		return PreferencesView{}, fmt.Errorf("PreferenceService is nil")
	}
	if s.preferences == nil {
		return PreferencesView{}, fmt.Errorf("preference repository not configured")
	}

	vErr := &ValidationError{}
	if userID == "" {
		vErr.add("user_id", "user id is required")
	}

	workStart := parseTimeField(input.WorkStart, "work_start", vErr)
	workEnd := parseTimeField(input.WorkEnd, "work_end", vErr)
	earliest := parseTimeField(input.EarliestStudy, "earliest_study", vErr)
	latest := parseTimeField(input.LatestStudy, "latest_study", vErr)

	if input.MinSessionMinutes <= 0 {
		vErr.add("min_session_minutes", "minimum session length must be positive")
	}

	if vErr.HasErrors() {
		return PreferencesView{}, vErr
	}

	record := persistence.PreferenceRecord{
		UserID:            userID,
		WorkStart:         workStart.String(),
		WorkEnd:           workEnd.String(),
		EarliestStudy:     earliest.String(),
		LatestStudy:       latest.String(),
		MinSessionMinutes: input.MinSessionMinutes,
		MorningFirst:      input.MorningFirst,
	}

	if err := s.preferences.SavePreferences(ctx, record); err != nil {
		return PreferencesView{}, err
	}

	return PreferencesView{
		UserID:            userID,
		WorkStart:         record.WorkStart,
		WorkEnd:           record.WorkEnd,
		EarliestStudy:     record.EarliestStudy,
		LatestStudy:       record.LatestStudy,
		MinSessionMinutes: record.MinSessionMinutes,
		MorningFirst:      record.MorningFirst,
	}, nil
}

func parseTimeField(value, field string, vErr *ValidationError) scheduling.TimeOfDay {
	if value == "" {
		vErr.add(field, "time is required in HH:MM format")
		return 0
	}
	parsed, err := scheduling.ParseTimeOfDay(value)
	if err != nil {
		vErr.add(field, "time must be in HH:MM format")
		return 0
	}
	return parsed
}

func viewFromPreferences(userID string, prefs scheduling.Preferences) PreferencesView {
	return PreferencesView{
		UserID:            userID,
		WorkStart:         prefs.WorkStart.String(),
		WorkEnd:           prefs.WorkEnd.String(),
		EarliestStudy:     prefs.EarliestStudy.String(),
		LatestStudy:       prefs.LatestStudy.String(),
		MinSessionMinutes: prefs.MinSessionMinutes,
		MorningFirst:      prefs.MorningFirst,
	}
}
