package scheduling

import (
	"testing"
	"time"

	"github.com/example/study-scheduler/internal/interval"
)

func dayAt(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2024, time.March, 4, hour, minute, 0, 0, time.UTC)
}

func span(t *testing.T, startHour, startMin, endHour, endMin int) interval.Interval {
	t.Helper()
	return interval.Interval{Start: dayAt(t, startHour, startMin), End: dayAt(t, endHour, endMin)}
}

// Window 07:00-10:30 with busy 08:00-08:30 and a 60 minute floor keeps both
// the 60 minute head fragment and the 120 minute tail fragment.
func TestComputeFreeSlots_SplitAroundBusy(t *testing.T) {
	t.Parallel()

	windows := []StudyWindow{{Interval: span(t, 7, 0, 10, 30), Rank: 0}}
	busy := []interval.Interval{span(t, 8, 0, 8, 30)}

	slots := ComputeFreeSlots(windows, busy, 60)

	want := []interval.Interval{span(t, 7, 0, 8, 0), span(t, 8, 30, 10, 30)}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots %v, want %d", len(slots), slots, len(want))
	}
	for i := range want {
		if !slots[i].Start.Equal(want[i].Start) || !slots[i].End.Equal(want[i].End) {
			t.Fatalf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}
}

func TestComputeFreeSlots_FiltersShortFragments(t *testing.T) {
	t.Parallel()

	windows := []StudyWindow{{Interval: span(t, 7, 0, 10, 30), Rank: 0}}
	busy := []interval.Interval{span(t, 7, 45, 8, 30)}

	slots := ComputeFreeSlots(windows, busy, 60)
	if len(slots) != 1 {
		t.Fatalf("expected the 45 minute head fragment to be dropped, got %v", slots)
	}
	if !slots[0].Start.Equal(dayAt(t, 8, 30)) {
		t.Fatalf("remaining slot = %v, want start 08:30", slots[0])
	}
}

// Output must preserve the window priority order even when a later window
// holds the longer slot.
func TestComputeFreeSlots_PreservesWindowOrder(t *testing.T) {
	t.Parallel()

	windows := []StudyWindow{
		{Interval: span(t, 18, 30, 20, 0), Rank: 0}, // evening first, 90m
		{Interval: span(t, 7, 0, 10, 30), Rank: 1},  // morning second, 210m
	}

	slots := ComputeFreeSlots(windows, nil, 30)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %v", slots)
	}
	if !slots[0].Start.Equal(dayAt(t, 18, 30)) {
		t.Fatalf("first slot should come from the rank 0 window, got %v", slots[0])
	}
}

func TestComputeFreeSlots_InvalidWindowsAndBusySkipped(t *testing.T) {
	t.Parallel()

	windows := []StudyWindow{
		{Interval: interval.Interval{Start: dayAt(t, 10, 0), End: dayAt(t, 9, 0)}, Rank: 0},
		{Interval: span(t, 18, 30, 22, 0), Rank: 1},
	}
	busy := []interval.Interval{
		{Start: dayAt(t, 19, 0), End: dayAt(t, 18, 0)}, // malformed, skipped
		span(t, 20, 0, 20, 30),
	}

	slots := ComputeFreeSlots(windows, busy, 30)
	want := []interval.Interval{span(t, 18, 30, 20, 0), span(t, 20, 30, 22, 0)}
	if len(slots) != len(want) {
		t.Fatalf("got slots %v, want %v", slots, want)
	}
	for i := range want {
		if !slots[i].Start.Equal(want[i].Start) || !slots[i].End.Equal(want[i].End) {
			t.Fatalf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}
}

func TestComputeFreeSlots_NoWindows(t *testing.T) {
	t.Parallel()

	if slots := ComputeFreeSlots(nil, nil, 60); slots != nil {
		t.Fatalf("expected nil slots, got %v", slots)
	}
}
