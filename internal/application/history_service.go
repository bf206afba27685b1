package application

import (
	"context"
	"fmt"
	"time"

	"github.com/example/study-scheduler/internal/persistence"
	"github.com/example/study-scheduler/internal/scheduling"
)

// Statistics periods.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

// HistoryService records and aggregates study session history.
type HistoryService struct {
	history     persistence.HistoryRepository
	idGenerator func() string
	now         func() time.Time
	location    *time.Location
}

// NewHistoryService wires dependencies for history operations.
func NewHistoryService(history persistence.HistoryRepository, idGenerator func() string, now func() time.Time, location *time.Location) *HistoryService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &HistoryService{
		history:     history,
		idGenerator: idGenerator,
		now:         now,
		location:    location,
	}
}

// RecordSession writes a study session directly into history. This is the
// path for sessions completed outside the proposal flow, and for marking a
// scheduled session as completed after the fact.
func (s *HistoryService) RecordSession(ctx context.Context, userID string, input SessionLogInput) (scheduling.Session, error) {
	if s == nil {
		return scheduling.Session{}, fmt.Errorf("HistoryService is nil")
	}
	if s.history == nil {
		return scheduling.Session{}, fmt.Errorf("history repository not configured")
	}

	vErr := &ValidationError{}
	if userID == "" {
		vErr.add("user_id", "user id is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && !input.Start.Before(input.End) {
		vErr.add("time", "start must be before end")
	}

	status := scheduling.Status(input.Status)
	if input.Status == "" {
		status = scheduling.StatusCompleted
	} else if !knownStatus(status) {
		vErr.add("status", "unknown session status")
	}

	if vErr.HasErrors() {
		return scheduling.Session{}, vErr
	}

	sessionID := input.ID
	if sessionID == "" {
		sessionID = s.idGenerator()
	}
	title := input.Title
	if title == "" {
		title = "Study Session"
	}

	session := scheduling.Session{
		ID:          sessionID,
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		Status:      status,
	}

	if err := s.history.UpsertSession(ctx, recordFromSession(session)); err != nil {
		return scheduling.Session{}, mapRepoError(err)
	}
	return session, nil
}

// Get retrieves a single session from history.
func (s *HistoryService) Get(ctx context.Context, userID, sessionID string) (scheduling.Session, error) {
	if s == nil {
		return scheduling.Session{}, fmt.Errorf("HistoryService is nil")
	}
	if s.history == nil {
		return scheduling.Session{}, fmt.Errorf("history repository not configured")
	}

	record, err := s.history.GetSession(ctx, userID, sessionID)
	if err != nil {
		return scheduling.Session{}, mapRepoError(err)
	}
	return sessionFromRecord(record), nil
}

// ListSessions returns the user's session history ordered by start time.
func (s *HistoryService) ListSessions(ctx context.Context, userID string, from, to *time.Time, statuses []string) ([]scheduling.Session, error) {
	if s == nil {
		return nil, fmt.Errorf("HistoryService is nil")
	}
	if s.history == nil {
		return nil, fmt.Errorf("history repository not configured")
	}
	if userID == "" {
		vErr := &ValidationError{}
		vErr.add("user_id", "user id is required")
		return nil, vErr
	}

	records, err := s.history.ListSessions(ctx, userID, persistence.SessionFilter{
		From:     from,
		To:       to,
		Statuses: statuses,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	sessions := make([]scheduling.Session, 0, len(records))
	for _, record := range records {
		sessions = append(sessions, sessionFromRecord(record))
	}
	return sessions, nil
}

// Statistics aggregates the user's completed sessions over the period.
//
// Weekday and time-of-day breakdowns sum minutes, not session counts, so a
// long evening session weighs more than two short morning ones.
func (s *HistoryService) Statistics(ctx context.Context, userID, period string) (StatisticsResult, error) {
	if s == nil {
		return StatisticsResult{}, fmt.Errorf("HistoryService is nil")
	}
	if s.history == nil {
		return StatisticsResult{}, fmt.Errorf("history repository not configured")
	}

	vErr := &ValidationError{}
	if userID == "" {
		vErr.add("user_id", "user id is required")
	}
	if period == "" {
		period = PeriodAll
	}
	switch period {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
	default:
		vErr.add("period", "period must be one of week, month, year, all")
	}
	if vErr.HasErrors() {
		return StatisticsResult{}, vErr
	}

	now := s.now()
	from := periodStart(period, now)

	filter := persistence.SessionFilter{
		Statuses: []string{string(scheduling.StatusCompleted)},
	}
	if from != nil {
		filter.From = from
	}

	records, err := s.history.ListSessions(ctx, userID, filter)
	if err != nil {
		return StatisticsResult{}, mapRepoError(err)
	}

	result := StatisticsResult{
		UserID:             userID,
		Period:             period,
		From:               from,
		MinutesByWeekday:   make(map[string]int),
		MinutesByTimeOfDay: make(map[string]int),
	}

	var earliest time.Time
	for _, record := range records {
		minutes := int(record.End.Sub(record.Start) / time.Minute)
		if minutes <= 0 {
			continue
		}

		result.TotalSessions++
		result.TotalMinutes += minutes

		start := record.Start.In(s.location)
		result.MinutesByWeekday[start.Weekday().String()] += minutes
		result.MinutesByTimeOfDay[timeOfDayBucket(start.Hour())] += minutes

		if earliest.IsZero() || record.Start.Before(earliest) {
			earliest = record.Start
		}
	}

	if result.TotalSessions > 0 {
		result.AverageMinutes = float64(result.TotalMinutes) / float64(result.TotalSessions)

		spanDays := periodSpanDays(period, earliest, now)
		result.WeeklyAverageMinutes = float64(result.TotalMinutes) * 7 / float64(spanDays)
	}

	return result, nil
}

func knownStatus(status scheduling.Status) bool {
	switch status {
	case scheduling.StatusProposed,
		scheduling.StatusScheduled,
		scheduling.StatusRescheduled,
		scheduling.StatusCancelled,
		scheduling.StatusCompleted:
		return true
	default:
		return false
	}
}

func periodStart(period string, now time.Time) *time.Time {
	var from time.Time
	switch period {
	case PeriodWeek:
		from = now.AddDate(0, 0, -7)
	case PeriodMonth:
		from = now.AddDate(0, -1, 0)
	case PeriodYear:
		from = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &from
}

func periodSpanDays(period string, earliest, now time.Time) int {
	var days int
	switch period {
	case PeriodWeek:
		days = 7
	case PeriodMonth:
		days = 30
	case PeriodYear:
		days = 365
	default:
		if !earliest.IsZero() {
			days = int(now.Sub(earliest) / (24 * time.Hour))
		}
	}
	if days < 1 {
		days = 1
	}
	return days
}

func timeOfDayBucket(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}
