package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/study-scheduler/internal/calendar"
	"github.com/example/study-scheduler/internal/interval"
	"github.com/example/study-scheduler/internal/persistence"
	"github.com/example/study-scheduler/internal/scheduling"
)

// conflictLookaheadDays bounds how far ahead conflict resolution scans.
const conflictLookaheadDays = 7

// CalendarGateway captures the calendar interactions needed by the services.
type CalendarGateway interface {
	BusyIntervals(ctx context.Context, userID string, from, to time.Time) ([]calendar.BusyInterval, []error)
	CreateEvent(ctx context.Context, userID, providerName string, input calendar.EventInput) (calendar.EventRef, error)
	UpdateEvent(ctx context.Context, userID string, ref calendar.EventRef, patch calendar.EventPatch) error
	DeleteEvent(ctx context.Context, userID string, ref calendar.EventRef) error
}

// SchedulerService orchestrates free slot computation, proposal generation,
// calendar commits and conflict resolution.
type SchedulerService struct {
	calendars          CalendarGateway
	history            persistence.HistoryRepository
	preferences        persistence.PreferenceRepository
	idGenerator        func() string
	now                func() time.Time
	location           *time.Location
	dailyTargetMinutes int
	logger             *slog.Logger
}

// NewSchedulerService wires dependencies for scheduling operations.
func NewSchedulerService(calendars CalendarGateway, history persistence.HistoryRepository, preferences persistence.PreferenceRepository, idGenerator func() string, now func() time.Time, location *time.Location, dailyTargetMinutes int, logger *slog.Logger) *SchedulerService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	if dailyTargetMinutes <= 0 {
		dailyTargetMinutes = scheduling.DefaultDailyTargetMinutes
	}
	return &SchedulerService{
		calendars:          calendars,
		history:            history,
		preferences:        preferences,
		idGenerator:        idGenerator,
		now:                now,
		location:           location,
		dailyTargetMinutes: dailyTargetMinutes,
		logger:             defaultLogger(logger),
	}
}

// ComputeFreeSlots derives the free study slots for a single day from the
// user's preferences and aggregated calendar busy data. A positive minMinutes
// overrides the preferred minimum session length for this query only.
func (s *SchedulerService) ComputeFreeSlots(ctx context.Context, userID string, date time.Time, minMinutes int) (FreeSlotsResult, error) {
	if s == nil {
		return FreeSlotsResult{}, fmt.Errorf("SchedulerService is nil")
	}

	vErr := &ValidationError{}
	if userID == "" {
		vErr.add("user_id", "user id is required")
	}
	if date.IsZero() {
		vErr.add("date", "date is required")
	}
	if vErr.HasErrors() {
		return FreeSlotsResult{}, vErr
	}

	prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		return FreeSlotsResult{}, err
	}

	dayStart := startOfDay(date, s.location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	busy, providerErrors := s.busyFor(ctx, userID, dayStart, dayEnd)
	merged := calendar.MergedIntervals(busy)

	minLength := minMinutes
	if minLength <= 0 {
		minLength = prefs.MinSessionMinutes
	}

	windows := prefs.StudyWindowsForDate(dayStart, s.location)
	slots := scheduling.ComputeFreeSlots(windows, merged, minLength)

	total := 0
	for _, slot := range slots {
		total += slot.Minutes()
	}

	return FreeSlotsResult{
		UserID:           userID,
		Date:             dayStart,
		Slots:            slots,
		TotalFreeMinutes: total,
		ProviderErrors:   providerErrors,
	}, nil
}

// ProposeSessions generates study session proposals for every study day in
// the inclusive date range. Proposals stay in memory; nothing is committed.
func (s *SchedulerService) ProposeSessions(ctx context.Context, userID string, from, to time.Time, dailyTargetMinutes int) (ProposalResult, error) {
	if s == nil {
		return ProposalResult{}, fmt.Errorf("SchedulerService is nil")
	}

	vErr := &ValidationError{}
	if userID == "" {
		vErr.add("user_id", "user id is required")
	}
	if from.IsZero() {
		vErr.add("from", "from date is required")
	}
	if to.IsZero() {
		vErr.add("to", "to date is required")
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		vErr.add("range", "to must not be before from")
	}
	if vErr.HasErrors() {
		return ProposalResult{}, vErr
	}

	target := dailyTargetMinutes
	if target <= 0 {
		target = s.dailyTargetMinutes
	}

	prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		return ProposalResult{}, err
	}

	first := startOfDay(from, s.location)
	last := startOfDay(to, s.location)

	busy, providerErrors := s.busyFor(ctx, userID, first, last.AddDate(0, 0, 1))
	merged := calendar.MergedIntervals(busy)

	result := ProposalResult{
		UserID:         userID,
		From:           first,
		To:             last,
		ProviderErrors: providerErrors,
	}

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if !scheduling.IsStudyDay(day) {
			continue
		}

		windows := prefs.StudyWindowsForDate(day, s.location)
		slots := scheduling.ComputeFreeSlots(windows, merged, prefs.MinSessionMinutes)
		sessions := scheduling.ProposeForDay(slots, target, prefs.MinSessionMinutes, s.idGenerator)
		if len(sessions) == 0 {
			continue
		}

		for i := range sessions {
			sessions[i].UserID = userID
			result.TotalMinutes += sessions[i].DurationMinutes()
		}
		result.Days = append(result.Days, DayProposals{Date: day, Sessions: sessions})
	}

	return result, nil
}

// ScheduleApproved commits approved proposals to the calendar and records
// them in history. A session that fails to commit is reported and skipped;
// it never blocks the rest of the batch.
func (s *SchedulerService) ScheduleApproved(ctx context.Context, userID, providerName string, approved []ApprovedSession) (ScheduleResult, error) {
	if s == nil {
		return ScheduleResult{}, fmt.Errorf("SchedulerService is nil")
	}
	if s.calendars == nil {
		return ScheduleResult{}, fmt.Errorf("calendar gateway not configured")
	}

	vErr := &ValidationError{}
	if userID == "" {
		vErr.add("user_id", "user id is required")
	}
	if len(approved) == 0 {
		vErr.add("sessions", "at least one session is required")
	}
	if vErr.HasErrors() {
		return ScheduleResult{}, vErr
	}

	logger := serviceLogger(ctx, s.logger, "scheduler", "schedule_approved", "user_id", userID)
	result := ScheduleResult{UserID: userID}

	for _, item := range approved {
		sessionID := item.ID
		if sessionID == "" {
			sessionID = s.idGenerator()
		}
		title := item.Title
		if title == "" {
			title = "Study Session"
		}

		if !item.End.After(item.Start) {
			result.Failed = append(result.Failed, SessionFailure{
				SessionID: sessionID,
				Reason:    "start must be before end",
			})
			continue
		}

		ref, err := s.calendars.CreateEvent(ctx, userID, providerName, calendar.EventInput{
			Title:       title,
			Description: item.Description,
			Start:       item.Start,
			End:         item.End,
		})
		if err != nil {
			logger.WarnContext(ctx, "failed to create calendar event", "session_id", sessionID, "error", err)
			result.Failed = append(result.Failed, SessionFailure{SessionID: sessionID, Reason: err.Error()})
			continue
		}

		session := scheduling.Session{
			ID:          sessionID,
			UserID:      userID,
			Title:       title,
			Description: item.Description,
			Start:       item.Start,
			End:         item.End,
			Status:      scheduling.StatusScheduled,
			ProviderRef: &scheduling.ProviderRef{Provider: ref.Provider, EventID: ref.EventID},
		}

		if err := s.upsertSession(ctx, session); err != nil {
			logger.ErrorContext(ctx, "calendar event created but history write failed", "session_id", sessionID, "error", err)
			result.Failed = append(result.Failed, SessionFailure{SessionID: sessionID, Reason: err.Error()})
			continue
		}

		result.Scheduled = append(result.Scheduled, session)
	}

	return result, nil
}

// ResolveConflicts scans the next week of tracked sessions against calendar
// busy data and moves or cancels every session that collides with an external
// event. A session is moved to the first free slot on its own day that fits
// the original duration; when no slot fits, the backing event is deleted and
// the session is cancelled.
func (s *SchedulerService) ResolveConflicts(ctx context.Context, userID string) (ResolutionResult, error) {
	if s == nil {
		return ResolutionResult{}, fmt.Errorf("SchedulerService is nil")
	}
	if s.history == nil {
		return ResolutionResult{}, fmt.Errorf("history repository not configured")
	}
	if s.calendars == nil {
		return ResolutionResult{}, fmt.Errorf("calendar gateway not configured")
	}

	if userID == "" {
		vErr := &ValidationError{}
		vErr.add("user_id", "user id is required")
		return ResolutionResult{}, vErr
	}

	logger := serviceLogger(ctx, s.logger, "scheduler", "resolve_conflicts", "user_id", userID)

	from := s.now()
	to := from.AddDate(0, 0, conflictLookaheadDays)

	records, err := s.history.ListSessions(ctx, userID, persistence.SessionFilter{
		From: &from,
		To:   &to,
		Statuses: []string{
			string(scheduling.StatusScheduled),
			string(scheduling.StatusRescheduled),
		},
	})
	if err != nil {
		return ResolutionResult{}, mapRepoError(err)
	}

	busy, providerErrors := s.busyFor(ctx, userID, from, to)

	result := ResolutionResult{UserID: userID, ProviderErrors: providerErrors}
	if len(records) == 0 {
		return result, nil
	}

	prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		return ResolutionResult{}, err
	}

	// Sessions moved earlier in this pass occupy their new slots for the
	// sessions examined after them.
	var placed []interval.Interval

	for _, record := range records {
		session := sessionFromRecord(record)
		others := excludeOwnEvent(busy, record)

		plain := make([]interval.Interval, 0, len(others)+len(placed))
		for _, b := range others {
			plain = append(plain, b.Interval)
		}
		plain = append(plain, placed...)
		merged := interval.Merge(plain)

		current := interval.Interval{Start: session.Start, End: session.End}
		if !overlapsAny(merged, current) {
			result.Unchanged++
			continue
		}

		duration := session.DurationMinutes()
		windows := prefs.StudyWindowsForDate(session.Start.In(s.location), s.location)
		candidates := scheduling.ComputeFreeSlots(windows, merged, duration)

		moved := false
		for _, candidate := range candidates {
			newStart := candidate.Start
			newEnd := newStart.Add(time.Duration(duration) * time.Minute)

			if session.ProviderRef != nil {
				err := s.calendars.UpdateEvent(ctx, userID, calendar.EventRef{
					Provider: session.ProviderRef.Provider,
					EventID:  session.ProviderRef.EventID,
				}, calendar.EventPatch{Start: &newStart, End: &newEnd})
				if err != nil {
					logger.WarnContext(ctx, "failed to move calendar event, trying next slot",
						"session_id", session.ID, "error", err)
					continue
				}
			}

			session.Start = newStart
			session.End = newEnd
			session.Status = scheduling.StatusRescheduled

			if err := s.upsertSession(ctx, session); err != nil {
				logger.ErrorContext(ctx, "calendar event moved but history write failed",
					"session_id", session.ID, "error", err)
				result.Failed = append(result.Failed, SessionFailure{SessionID: session.ID, Reason: err.Error()})
			} else {
				result.Rescheduled = append(result.Rescheduled, session)
			}
			placed = append(placed, interval.Interval{Start: newStart, End: newEnd})
			moved = true
			break
		}
		if moved {
			continue
		}

		if session.ProviderRef != nil {
			err := s.calendars.DeleteEvent(ctx, userID, calendar.EventRef{
				Provider: session.ProviderRef.Provider,
				EventID:  session.ProviderRef.EventID,
			})
			if err != nil {
				logger.WarnContext(ctx, "failed to delete conflicting calendar event",
					"session_id", session.ID, "error", err)
				result.Failed = append(result.Failed, SessionFailure{SessionID: session.ID, Reason: err.Error()})
				continue
			}
		}

		session.Status = scheduling.StatusCancelled
		if err := s.upsertSession(ctx, session); err != nil {
			result.Failed = append(result.Failed, SessionFailure{SessionID: session.ID, Reason: err.Error()})
			continue
		}
		result.Cancelled = append(result.Cancelled, session)
	}

	return result, nil
}

// loadPreferences returns the stored preferences or the defaults when the
// user has never saved any.
func (s *SchedulerService) loadPreferences(ctx context.Context, userID string) (scheduling.Preferences, error) {
	if s.preferences == nil {
		return scheduling.DefaultPreferences(), nil
	}

	record, err := s.preferences.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return scheduling.DefaultPreferences(), nil
		}
		return scheduling.Preferences{}, err
	}
	return preferencesFromRecord(record)
}

func (s *SchedulerService) busyFor(ctx context.Context, userID string, from, to time.Time) ([]calendar.BusyInterval, []string) {
	if s.calendars == nil {
		return nil, nil
	}

	busy, errs := s.calendars.BusyIntervals(ctx, userID, from, to)
	if len(errs) == 0 {
		return busy, nil
	}

	logger := serviceLogger(ctx, s.logger, "scheduler", "", "user_id", userID)
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		logger.WarnContext(ctx, "calendar provider query failed", "error", err)
		messages = append(messages, err.Error())
	}
	return busy, messages
}

func (s *SchedulerService) upsertSession(ctx context.Context, session scheduling.Session) error {
	if s.history == nil {
		return nil
	}
	return s.history.UpsertSession(ctx, recordFromSession(session))
}

// excludeOwnEvent drops the busy interval produced by the session's own
// calendar event so a session never conflicts with itself. Sessions without
// a backing event fall back to exact start and end equality.
func excludeOwnEvent(busy []calendar.BusyInterval, record persistence.SessionRecord) []calendar.BusyInterval {
	others := make([]calendar.BusyInterval, 0, len(busy))
	for _, b := range busy {
		if record.ProviderEventID != "" {
			if b.Provider == record.Provider && b.EventID == record.ProviderEventID {
				continue
			}
		} else if b.Start.Equal(record.Start) && b.End.Equal(record.End) {
			continue
		}
		others = append(others, b)
	}
	return others
}

func overlapsAny(busy []interval.Interval, candidate interval.Interval) bool {
	for _, b := range busy {
		if interval.Overlaps(b, candidate) {
			return true
		}
	}
	return false
}

func sessionFromRecord(record persistence.SessionRecord) scheduling.Session {
	session := scheduling.Session{
		ID:          record.ID,
		UserID:      record.UserID,
		Title:       record.Title,
		Description: record.Description,
		Start:       record.Start,
		End:         record.End,
		Status:      scheduling.Status(record.Status),
	}
	if record.ProviderEventID != "" || record.Provider != "" {
		session.ProviderRef = &scheduling.ProviderRef{
			Provider: record.Provider,
			EventID:  record.ProviderEventID,
		}
	}
	return session
}

func recordFromSession(session scheduling.Session) persistence.SessionRecord {
	record := persistence.SessionRecord{
		ID:          session.ID,
		UserID:      session.UserID,
		Title:       session.Title,
		Description: session.Description,
		Start:       session.Start,
		End:         session.End,
		Status:      string(session.Status),
	}
	if session.ProviderRef != nil {
		record.Provider = session.ProviderRef.Provider
		record.ProviderEventID = session.ProviderRef.EventID
	}
	return record
}

func preferencesFromRecord(record persistence.PreferenceRecord) (scheduling.Preferences, error) {
	prefs := scheduling.Preferences{
		MinSessionMinutes: record.MinSessionMinutes,
		MorningFirst:      record.MorningFirst,
	}

	var err error
	if prefs.WorkStart, err = scheduling.ParseTimeOfDay(record.WorkStart); err != nil {
		return scheduling.Preferences{}, fmt.Errorf("stored work start is invalid: %w", err)
	}
	if prefs.WorkEnd, err = scheduling.ParseTimeOfDay(record.WorkEnd); err != nil {
		return scheduling.Preferences{}, fmt.Errorf("stored work end is invalid: %w", err)
	}
	if prefs.EarliestStudy, err = scheduling.ParseTimeOfDay(record.EarliestStudy); err != nil {
		return scheduling.Preferences{}, fmt.Errorf("stored earliest study is invalid: %w", err)
	}
	if prefs.LatestStudy, err = scheduling.ParseTimeOfDay(record.LatestStudy); err != nil {
		return scheduling.Preferences{}, fmt.Errorf("stored latest study is invalid: %w", err)
	}
	return prefs, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	inLoc := t.In(loc)
	return time.Date(inLoc.Year(), inLoc.Month(), inLoc.Day(), 0, 0, 0, 0, loc)
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
