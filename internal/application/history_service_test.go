package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/study-scheduler/internal/persistence"
	"github.com/example/study-scheduler/internal/scheduling"
)

func newHistoryService(history *historyRepoStub, now time.Time) *HistoryService {
	return NewHistoryService(history, sequentialIDs("session"), func() time.Time { return now }, time.UTC)
}

func completedRecord(id string, start time.Time, minutes int) persistence.SessionRecord {
	return persistence.SessionRecord{
		ID:     id,
		UserID: "user-1",
		Start:  start,
		End:    start.Add(time.Duration(minutes) * time.Minute),
		Status: "completed",
	}
}

func TestHistoryService_RecordSession_DefaultsToCompleted(t *testing.T) {
	t.Parallel()

	history := &historyRepoStub{}
	svc := newHistoryService(history, monday(12, 0))

	session, err := svc.RecordSession(context.Background(), "user-1", SessionLogInput{
		Start: monday(7, 0),
		End:   monday(8, 30),
	})
	if err != nil {
		t.Fatalf("RecordSession returned error: %v", err)
	}

	if session.ID != "session-1" {
		t.Errorf("expected a generated id, got %q", session.ID)
	}
	if session.Status != scheduling.StatusCompleted {
		t.Errorf("expected completed status, got %q", session.Status)
	}
	if session.Title != "Study Session" {
		t.Errorf("expected default title, got %q", session.Title)
	}
	if len(history.upserts) != 1 || history.upserts[0].Status != "completed" {
		t.Fatalf("expected a completed history write, got %+v", history.upserts)
	}
}

func TestHistoryService_RecordSession_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newHistoryService(&historyRepoStub{}, monday(12, 0))

	_, err := svc.RecordSession(context.Background(), "user-1", SessionLogInput{
		Start:  monday(9, 0),
		End:    monday(8, 0),
		Status: "paused",
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"time", "status"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Errorf("expected field error for %q, got %+v", field, vErr.FieldErrors)
		}
	}
}

func TestHistoryService_Get_MapsNotFound(t *testing.T) {
	t.Parallel()

	svc := newHistoryService(&historyRepoStub{}, monday(12, 0))

	_, err := svc.Get(context.Background(), "user-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryService_ListSessions_ConvertsRecords(t *testing.T) {
	t.Parallel()

	history := &historyRepoStub{records: []persistence.SessionRecord{
		{
			ID:              "session-1",
			UserID:          "user-1",
			Start:           monday(7, 0),
			End:             monday(8, 0),
			Status:          "scheduled",
			Provider:        "google",
			ProviderEventID: "event-1",
		},
	}}
	svc := newHistoryService(history, monday(12, 0))

	sessions, err := svc.ListSessions(context.Background(), "user-1", nil, nil, nil)
	if err != nil {
		t.Fatalf("ListSessions returned error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one session, got %+v", sessions)
	}
	session := sessions[0]
	if session.Status != scheduling.StatusScheduled {
		t.Errorf("unexpected status %q", session.Status)
	}
	if session.ProviderRef == nil || session.ProviderRef.EventID != "event-1" {
		t.Errorf("provider reference not restored: %+v", session.ProviderRef)
	}
}

func TestHistoryService_Statistics_AggregatesCompletedSessions(t *testing.T) {
	t.Parallel()

	// monday is 2024-03-04; the Tuesday session runs in the evening.
	tuesday := monday(0, 0).AddDate(0, 0, 1)
	history := &historyRepoStub{records: []persistence.SessionRecord{
		completedRecord("session-1", monday(9, 0), 60),
		completedRecord("session-2", tuesday.Add(18*time.Hour), 90),
		{
			ID:     "session-3",
			UserID: "user-1",
			Start:  monday(13, 0),
			End:    monday(14, 0),
			Status: "cancelled",
		},
	}}
	svc := newHistoryService(history, monday(0, 0).AddDate(0, 0, 5))

	stats, err := svc.Statistics(context.Background(), "user-1", PeriodWeek)
	if err != nil {
		t.Fatalf("Statistics returned error: %v", err)
	}

	if stats.TotalSessions != 2 {
		t.Fatalf("cancelled sessions must not count, got %d sessions", stats.TotalSessions)
	}
	if stats.TotalMinutes != 150 {
		t.Errorf("expected 150 total minutes, got %d", stats.TotalMinutes)
	}
	if stats.AverageMinutes != 75 {
		t.Errorf("expected average of 75 minutes, got %v", stats.AverageMinutes)
	}
	if stats.WeeklyAverageMinutes != 150 {
		t.Errorf("expected weekly average of 150 minutes, got %v", stats.WeeklyAverageMinutes)
	}

	if stats.MinutesByWeekday["Monday"] != 60 || stats.MinutesByWeekday["Tuesday"] != 90 {
		t.Errorf("unexpected weekday breakdown: %+v", stats.MinutesByWeekday)
	}
	if stats.MinutesByTimeOfDay["morning"] != 60 || stats.MinutesByTimeOfDay["evening"] != 90 {
		t.Errorf("unexpected time of day breakdown: %+v", stats.MinutesByTimeOfDay)
	}
}

func TestHistoryService_Statistics_AllPeriodSpansHistory(t *testing.T) {
	t.Parallel()

	now := monday(0, 0).AddDate(0, 0, 14)
	history := &historyRepoStub{records: []persistence.SessionRecord{
		completedRecord("session-1", monday(9, 0), 60),
		completedRecord("session-2", monday(9, 0).AddDate(0, 0, 7), 60),
	}}
	svc := newHistoryService(history, now)

	stats, err := svc.Statistics(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("Statistics returned error: %v", err)
	}

	if stats.Period != PeriodAll {
		t.Errorf("empty period should default to all, got %q", stats.Period)
	}
	if stats.From != nil {
		t.Errorf("the all period has no lower bound, got %v", stats.From)
	}
	// 120 minutes over roughly two weeks averages to about 60 per week.
	if stats.WeeklyAverageMinutes < 55 || stats.WeeklyAverageMinutes > 65 {
		t.Errorf("unexpected weekly average: %v", stats.WeeklyAverageMinutes)
	}
}

func TestHistoryService_Statistics_RejectsUnknownPeriod(t *testing.T) {
	t.Parallel()

	svc := newHistoryService(&historyRepoStub{}, monday(12, 0))

	_, err := svc.Statistics(context.Background(), "user-1", "fortnight")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["period"]; !ok {
		t.Errorf("expected period error, got %+v", vErr.FieldErrors)
	}
}
