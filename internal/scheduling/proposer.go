package scheduling

import (
	"sort"
	"time"

	"github.com/example/study-scheduler/internal/interval"
)

// maxSessionMinutes caps a single proposed session at two hours regardless
// of slot length or remaining daily target.
const maxSessionMinutes = 120

// DefaultDailyTargetMinutes is the fallback study budget per day.
const DefaultDailyTargetMinutes = 120

// ProposeForDay greedily allocates a daily study budget across free slots.
//
// Slots are considered longest first, deliberately overriding the priority
// ordering from ComputeFreeSlots: the goal here is to meet the target with
// the fewest, largest sessions. Each accepted slot yields exactly one
// proposed session anchored at the slot start; a slot is never split into
// multiple sessions. Slots whose resulting session length would fall below
// minMinutes are skipped without consuming budget. Allocation stops once the
// remaining target reaches zero or slots run out.
//
// newID supplies identifiers for the generated sessions.
func ProposeForDay(freeSlots []interval.Interval, dailyTargetMinutes, minMinutes int, newID func() string) []Session {
	if dailyTargetMinutes <= 0 {
		dailyTargetMinutes = DefaultDailyTargetMinutes
	}
	if newID == nil {
		newID = func() string { return "" }
	}

	ordered := make([]interval.Interval, len(freeSlots))
	copy(ordered, freeSlots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Duration() > ordered[j].Duration()
	})

	remaining := dailyTargetMinutes
	proposals := make([]Session, 0, len(ordered))

	for _, slot := range ordered {
		if remaining <= 0 {
			break
		}

		length := slot.Minutes()
		if remaining < length {
			length = remaining
		}
		if length > maxSessionMinutes {
			length = maxSessionMinutes
		}
		if length < minMinutes {
			continue
		}

		proposals = append(proposals, Session{
			ID:     newID(),
			Title:  "Study Session",
			Start:  slot.Start,
			End:    slot.Start.Add(time.Duration(length) * time.Minute),
			Status: StatusProposed,
		})
		remaining -= length
	}

	if len(proposals) == 0 {
		return nil
	}
	return proposals
}

// IsStudyDay reports whether proposals may be generated for the date.
// Weekends are excluded from study planning entirely.
func IsStudyDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}
