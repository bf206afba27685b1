// Package scheduling implements the study scheduling engine: preference
// derived study windows, free slot computation and greedy session proposals.
package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/study-scheduler/internal/interval"
)

// ErrInvalidTimeOfDay indicates a time-of-day string could not be parsed.
var ErrInvalidTimeOfDay = errors.New("scheduling: invalid time of day")

// TimeOfDay is a clock time without a date, stored as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// MustTimeOfDay builds a TimeOfDay from an hour and minute pair. Values are
// taken as-is; callers are expected to pass valid clock components.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// String renders the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On anchors the time of day to a calendar date in the given location.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, loc)
}

// Preferences describes a user's daily time-of-day boundaries for work and
// study, used to derive study windows around the working day.
//
// The expected configuration is EarliestStudy <= WorkStart <= WorkEnd <=
// LatestStudy, but this is not enforced: a violated ordering simply collapses
// the affected window to zero or negative length, which downstream
// computation treats as "no slots", never as an error.
type Preferences struct {
	WorkStart         TimeOfDay
	WorkEnd           TimeOfDay
	EarliestStudy     TimeOfDay
	LatestStudy       TimeOfDay
	MinSessionMinutes int
	MorningFirst      bool
}

// DefaultPreferences returns the stock configuration: work 10:30-18:30,
// study bounded to 07:00-22:00, 90 minute minimum sessions, mornings first.
func DefaultPreferences() Preferences {
	return Preferences{
		WorkStart:         MustTimeOfDay(10, 30),
		WorkEnd:           MustTimeOfDay(18, 30),
		EarliestStudy:     MustTimeOfDay(7, 0),
		LatestStudy:       MustTimeOfDay(22, 0),
		MinSessionMinutes: 90,
		MorningFirst:      true,
	}
}

// StudyWindow is a candidate study interval on a single day, tagged with a
// priority rank. Rank orders windows for slot scanning; it does not affect
// correctness.
type StudyWindow struct {
	interval.Interval
	Rank int
}

// StudyWindowsForDate derives the study windows for a calendar date in
// priority order: the morning window before work and the evening window
// after work, ordered by the MorningFirst preference.
//
// Windows that collapse to zero or negative length are still returned; the
// free slot computer yields no slots for them.
func (p Preferences) StudyWindowsForDate(date time.Time, loc *time.Location) []StudyWindow {
	morning := interval.Interval{
		Start: p.EarliestStudy.On(date, loc),
		End:   p.WorkStart.On(date, loc),
	}
	evening := interval.Interval{
		Start: p.WorkEnd.On(date, loc),
		End:   p.LatestStudy.On(date, loc),
	}

	if p.MorningFirst {
		return []StudyWindow{
			{Interval: morning, Rank: 0},
			{Interval: evening, Rank: 1},
		}
	}
	return []StudyWindow{
		{Interval: evening, Rank: 0},
		{Interval: morning, Rank: 1},
	}
}
