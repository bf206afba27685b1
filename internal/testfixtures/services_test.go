package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/calendar"
	"github.com/example/study-scheduler/internal/scheduling"
)

func TestServiceFactoryNewHistoryService(t *testing.T) {
	factory := NewServiceFactory()
	harness := NewSQLiteHarness(t)

	svc := factory.NewHistoryService(HistoryServiceDeps{History: harness.History})

	fixture := NewStudySessionFixture(
		WithSessionID(""),
		WithSessionUserID("user-factory"),
		WithSessionStatus(scheduling.StatusCompleted),
	)

	session, err := svc.RecordSession(context.Background(), "user-factory", fixture.LogInput())
	if err != nil {
		t.Fatalf("RecordSession returned error: %v", err)
	}

	if session.ID != "id-1" {
		t.Fatalf("expected generated ID id-1, got %q", session.ID)
	}

	stored, err := svc.Get(context.Background(), "user-factory", session.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.Status != scheduling.StatusCompleted {
		t.Fatalf("expected completed status, got %q", stored.Status)
	}
}

// Exercises the whole pipeline against real storage and a real provider
// registry: save preferences, commit an approved session, introduce a
// conflicting meeting and let conflict resolution move the session.
func TestScheduleAndResolveAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	harness := NewSQLiteHarness(t)

	provider := calendar.NewMemoryProvider("local", nil)
	calendars := calendar.NewService()
	calendars.Register(provider)

	clock := NewClock(ReferenceTime())
	factory := NewServiceFactory(WithClock(clock), WithIDGenerator(NewIDGenerator("session")))

	preferences := factory.NewPreferenceService(PreferenceServiceDeps{Preferences: harness.Preferences})
	scheduler := factory.NewSchedulerService(SchedulerServiceDeps{
		Calendars:   calendars,
		History:     harness.History,
		Preferences: harness.Preferences,
	})
	history := factory.NewHistoryService(HistoryServiceDeps{History: harness.History})

	userID := "user-e2e"
	if _, err := preferences.Update(ctx, userID, NewPreferenceFixture(WithPreferenceUserID(userID)).Input()); err != nil {
		t.Fatalf("Update preferences returned error: %v", err)
	}

	// Monday morning study window under default preferences is 07:00 to
	// 10:30, so a 90 minute session at 07:00 fits.
	start := time.Date(2024, time.March, 4, 7, 0, 0, 0, time.UTC)
	approved := application.ApprovedSession{
		Title: "Algorithms revision",
		Start: start,
		End:   start.Add(90 * time.Minute),
	}

	scheduled, err := scheduler.ScheduleApproved(ctx, userID, "local", []application.ApprovedSession{approved})
	if err != nil {
		t.Fatalf("ScheduleApproved returned error: %v", err)
	}
	if len(scheduled.Failed) != 0 {
		t.Fatalf("unexpected failures: %+v", scheduled.Failed)
	}
	if len(scheduled.Scheduled) != 1 {
		t.Fatalf("expected one scheduled session, got %d", len(scheduled.Scheduled))
	}
	session := scheduled.Scheduled[0]
	if session.ProviderRef == nil || session.ProviderRef.Provider != "local" {
		t.Fatalf("expected a local provider reference, got %+v", session.ProviderRef)
	}
	if provider.EventCount(userID) != 1 {
		t.Fatalf("expected one calendar event, got %d", provider.EventCount(userID))
	}

	stored, err := history.Get(ctx, userID, session.ID)
	if err != nil {
		t.Fatalf("Get after scheduling returned error: %v", err)
	}
	if stored.Status != scheduling.StatusScheduled {
		t.Fatalf("expected scheduled status, got %q", stored.Status)
	}

	// A meeting lands in the middle of the session. Resolution must move
	// the session to the free slot after the meeting.
	if _, err := provider.CreateEvent(ctx, userID, calendar.EventInput{
		Title: "Standup",
		Start: start.Add(30 * time.Minute),
		End:   start.Add(60 * time.Minute),
	}); err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}

	resolution, err := scheduler.ResolveConflicts(ctx, userID)
	if err != nil {
		t.Fatalf("ResolveConflicts returned error: %v", err)
	}
	if len(resolution.Failed) != 0 {
		t.Fatalf("unexpected failures: %+v", resolution.Failed)
	}
	if len(resolution.Rescheduled) != 1 || len(resolution.Cancelled) != 0 {
		t.Fatalf("expected one rescheduled session, got %+v", resolution)
	}

	moved := resolution.Rescheduled[0]
	wantStart := start.Add(60 * time.Minute)
	if !moved.Start.Equal(wantStart) {
		t.Fatalf("expected session moved to %v, got %v", wantStart, moved.Start)
	}
	if moved.DurationMinutes() != 90 {
		t.Fatalf("expected duration preserved at 90 minutes, got %d", moved.DurationMinutes())
	}

	stored, err = history.Get(ctx, userID, session.ID)
	if err != nil {
		t.Fatalf("Get after resolution returned error: %v", err)
	}
	if stored.Status != scheduling.StatusRescheduled {
		t.Fatalf("expected rescheduled status, got %q", stored.Status)
	}
	if !stored.Start.Equal(wantStart) {
		t.Fatalf("history start not updated, got %v", stored.Start)
	}

	// The provider must reflect the move as well.
	busy, err := provider.BusyIntervals(ctx, userID, wantStart, wantStart.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("BusyIntervals returned error: %v", err)
	}
	var found bool
	for _, b := range busy {
		if b.EventID == session.ProviderRef.EventID && b.Start.Equal(wantStart) {
			found = true
		}
	}
	if !found {
		t.Fatalf("calendar event not moved, busy: %+v", busy)
	}
}
