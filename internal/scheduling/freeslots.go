package scheduling

import (
	"time"

	"github.com/example/study-scheduler/internal/interval"
)

// ComputeFreeSlots subtracts busy intervals from the supplied study windows
// and returns the fragments that are at least minMinutes long.
//
// Windows are processed in the order given, so the priority ordering chosen
// by StudyWindowsForDate carries through to the returned slots and downstream
// consumers can scan them without re-sorting. Windows with zero or negative
// length contribute nothing. Malformed busy intervals are skipped inside
// Subtract; bad calendar data degrades the result, it never aborts it.
func ComputeFreeSlots(windows []StudyWindow, busy []interval.Interval, minMinutes int) []interval.Interval {
	if minMinutes < 0 {
		minMinutes = 0
	}
	minDuration := time.Duration(minMinutes) * time.Minute

	slots := make([]interval.Interval, 0, len(windows)*2)
	for _, window := range windows {
		for _, frag := range interval.Subtract(window.Interval, busy) {
			if frag.Duration() < minDuration {
				continue
			}
			slots = append(slots, frag)
		}
	}

	if len(slots) == 0 {
		return nil
	}
	return slots
}
