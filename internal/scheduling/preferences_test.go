package scheduling

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{input: "07:00", want: MustTimeOfDay(7, 0)},
		{input: "18:30", want: MustTimeOfDay(18, 30)},
		{input: "0:05", want: MustTimeOfDay(0, 5)},
		{input: "24:00", wantErr: true},
		{input: "10:60", wantErr: true},
		{input: "late", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTimeOfDay(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidTimeOfDay) {
					t.Fatalf("ParseTimeOfDay(%q) error = %v, want ErrInvalidTimeOfDay", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("ParseTimeOfDay(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	t.Parallel()

	if got := MustTimeOfDay(7, 5).String(); got != "07:05" {
		t.Fatalf("String() = %q, want %q", got, "07:05")
	}
}

func TestStudyWindowsForDate_MorningFirst(t *testing.T) {
	t.Parallel()

	prefs := DefaultPreferences()
	date := time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)

	windows := prefs.StudyWindowsForDate(date, time.UTC)
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}

	morning := windows[0]
	if morning.Rank != 0 {
		t.Fatalf("morning window rank = %d, want 0", morning.Rank)
	}
	if got := morning.Start.Hour()*60 + morning.Start.Minute(); got != int(prefs.EarliestStudy) {
		t.Fatalf("morning window starts at %v, want %v", morning.Start, prefs.EarliestStudy)
	}
	if got := morning.End.Hour()*60 + morning.End.Minute(); got != int(prefs.WorkStart) {
		t.Fatalf("morning window ends at %v, want %v", morning.End, prefs.WorkStart)
	}

	evening := windows[1]
	if got := evening.Start.Hour()*60 + evening.Start.Minute(); got != int(prefs.WorkEnd) {
		t.Fatalf("evening window starts at %v, want %v", evening.Start, prefs.WorkEnd)
	}
}

func TestStudyWindowsForDate_EveningFirst(t *testing.T) {
	t.Parallel()

	prefs := DefaultPreferences()
	prefs.MorningFirst = false
	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	windows := prefs.StudyWindowsForDate(date, time.UTC)
	if windows[0].Start.Hour() != 18 || windows[0].Start.Minute() != 30 {
		t.Fatalf("first window should be the evening window, got start %v", windows[0].Start)
	}
	if windows[1].Rank != 1 {
		t.Fatalf("second window rank = %d, want 1", windows[1].Rank)
	}
}

// A misconfigured ordering is tolerated: the collapsed window is returned
// and simply produces no slots downstream.
func TestStudyWindowsForDate_CollapsedWindow(t *testing.T) {
	t.Parallel()

	prefs := DefaultPreferences()
	prefs.EarliestStudy = MustTimeOfDay(11, 0) // after WorkStart
	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	windows := prefs.StudyWindowsForDate(date, time.UTC)
	if len(windows) != 2 {
		t.Fatalf("expected both windows even when one collapses, got %d", len(windows))
	}
	if windows[0].IsValid() {
		t.Fatalf("collapsed morning window should be invalid, got %v", windows[0].Interval)
	}

	slots := ComputeFreeSlots(windows, nil, prefs.MinSessionMinutes)
	if len(slots) != 1 {
		t.Fatalf("expected only the evening slot, got %v", slots)
	}
}
