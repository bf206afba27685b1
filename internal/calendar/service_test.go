package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/study-scheduler/internal/interval"
)

type providerStub struct {
	name    string
	busy    []BusyInterval
	busyErr error

	createdID string
	createErr error
	updateErr error
	deleteErr error

	createCalls int
	updateCalls int
	deleteCalls int
	lastEventID string
}

func (p *providerStub) Name() string { return p.name }

func (p *providerStub) BusyIntervals(ctx context.Context, userID string, from, to time.Time) ([]BusyInterval, error) {
	if p.busyErr != nil {
		return nil, p.busyErr
	}
	return p.busy, nil
}

func (p *providerStub) CreateEvent(ctx context.Context, userID string, input EventInput) (string, error) {
	p.createCalls++
	if p.createErr != nil {
		return "", p.createErr
	}
	return p.createdID, nil
}

func (p *providerStub) UpdateEvent(ctx context.Context, userID, eventID string, patch EventPatch) error {
	p.updateCalls++
	p.lastEventID = eventID
	return p.updateErr
}

func (p *providerStub) DeleteEvent(ctx context.Context, userID, eventID string) error {
	p.deleteCalls++
	p.lastEventID = eventID
	return p.deleteErr
}

func busyAt(t *testing.T, provider, eventID string, startHour, endHour int) BusyInterval {
	t.Helper()
	day := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	return BusyInterval{
		Interval: interval.Interval{
			Start: day.Add(time.Duration(startHour) * time.Hour),
			End:   day.Add(time.Duration(endHour) * time.Hour),
		},
		EventID:  eventID,
		Provider: provider,
	}
}

func TestServiceBusyIntervals_PartialFailure(t *testing.T) {
	t.Parallel()

	google := &providerStub{name: "google", busy: []BusyInterval{busyAt(t, "google", "g-1", 9, 10)}}
	outlook := &providerStub{name: "outlook", busyErr: errors.New("token expired")}

	svc := NewService()
	svc.Register(google)
	svc.Register(outlook)

	busy, errs := svc.BusyIntervals(context.Background(), "user-1", time.Time{}, time.Time{})

	if len(busy) != 1 || busy[0].EventID != "g-1" {
		t.Fatalf("expected google data to survive, got %v", busy)
	}
	if len(errs) != 1 {
		t.Fatalf("expected one provider error, got %v", errs)
	}
	if got := errs[0].Error(); got == "" || !errors.Is(errs[0], outlook.busyErr) {
		t.Fatalf("provider error should wrap the source error, got %v", errs[0])
	}
}

func TestServiceBusyIntervals_NoProviders(t *testing.T) {
	t.Parallel()

	svc := NewService()
	busy, errs := svc.BusyIntervals(context.Background(), "user-1", time.Time{}, time.Time{})
	if busy != nil || errs != nil {
		t.Fatalf("expected empty result, got %v / %v", busy, errs)
	}
}

func TestMergedIntervals_CoalescesAcrossProviders(t *testing.T) {
	t.Parallel()

	busy := []BusyInterval{
		busyAt(t, "google", "g-1", 9, 11),
		busyAt(t, "outlook", "o-1", 10, 12),
		busyAt(t, "google", "g-2", 14, 15),
	}

	merged := MergedIntervals(busy)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged intervals, got %v", merged)
	}
	if merged[0].Start.Hour() != 9 || merged[0].End.Hour() != 12 {
		t.Fatalf("first merged interval = %v, want 09:00-12:00", merged[0])
	}
}

func TestServiceCreateEvent_DefaultsToFirstProvider(t *testing.T) {
	t.Parallel()

	google := &providerStub{name: "google", createdID: "event-7"}
	outlook := &providerStub{name: "outlook", createdID: "never"}

	svc := NewService()
	svc.Register(google)
	svc.Register(outlook)

	ref, err := svc.CreateEvent(context.Background(), "user-1", "", EventInput{Title: "Study Session"})
	if err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}
	if ref.Provider != "google" || ref.EventID != "event-7" {
		t.Fatalf("ref = %+v, want google/event-7", ref)
	}
	if outlook.createCalls != 0 {
		t.Fatalf("second provider should not be used")
	}
}

func TestServiceCreateEvent_NoProviders(t *testing.T) {
	t.Parallel()

	svc := NewService()
	if _, err := svc.CreateEvent(context.Background(), "user-1", "", EventInput{}); !errors.Is(err, ErrNoProviders) {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}
}

func TestServiceMutations_RouteByProvider(t *testing.T) {
	t.Parallel()

	outlook := &providerStub{name: "outlook"}
	svc := NewService()
	svc.Register(&providerStub{name: "google"})
	svc.Register(outlook)

	ref := EventRef{Provider: "outlook", EventID: "o-9"}
	if err := svc.UpdateEvent(context.Background(), "user-1", ref, EventPatch{}); err != nil {
		t.Fatalf("UpdateEvent returned error: %v", err)
	}
	if outlook.updateCalls != 1 || outlook.lastEventID != "o-9" {
		t.Fatalf("update should reach the outlook provider with the event id")
	}

	if err := svc.DeleteEvent(context.Background(), "user-1", EventRef{Provider: "nowhere", EventID: "x"}); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}
