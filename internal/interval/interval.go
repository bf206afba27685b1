// Package interval provides pure time interval arithmetic used by the
// study scheduling engine. All intervals are half-open: [Start, End).
package interval

import (
	"sort"
	"time"
)

// Interval represents a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsValid reports whether the interval is well-formed, i.e. Start < End.
func (i Interval) IsValid() bool {
	return !i.Start.IsZero() && !i.End.IsZero() && i.Start.Before(i.End)
}

// Duration returns the length of the interval. Invalid intervals report zero.
func (i Interval) Duration() time.Duration {
	if !i.IsValid() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Minutes returns the interval length in whole minutes.
func (i Interval) Minutes() int {
	return int(i.Duration() / time.Minute)
}

// Overlaps reports whether two intervals share any time. The comparison is
// strict: intervals that merely touch at a boundary do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Subtract returns the portions of window not covered by any busy interval.
//
// Each busy interval is applied against the current candidate set, so slots
// accumulate splits as busy intervals land inside earlier fragments. Busy
// intervals outside the window, and invalid busy intervals, are skipped
// individually. Surviving fragments keep their chronological order.
func Subtract(window Interval, busy []Interval) []Interval {
	if !window.IsValid() {
		return nil
	}

	current := []Interval{window}

	for _, b := range busy {
		if !b.IsValid() {
			continue
		}
		if !Overlaps(window, b) {
			continue
		}

		next := make([]Interval, 0, len(current)+1)
		for _, slot := range current {
			switch {
			case !b.Start.After(slot.Start) && !b.End.Before(slot.End):
				// Busy covers the slot entirely: drop it.
			case b.Start.After(slot.Start) && b.End.Before(slot.End):
				// Busy sits strictly inside: split into two fragments.
				next = append(next,
					Interval{Start: slot.Start, End: b.Start},
					Interval{Start: b.End, End: slot.End},
				)
			case !b.Start.After(slot.Start) && b.End.After(slot.Start):
				// Busy overlaps only the head of the slot: trim the start.
				next = append(next, Interval{Start: b.End, End: slot.End})
			case b.Start.Before(slot.End) && !b.End.Before(slot.End):
				// Busy overlaps only the tail of the slot: trim the end.
				next = append(next, Interval{Start: slot.Start, End: b.Start})
			default:
				next = append(next, slot)
			}
		}
		current = next
	}

	result := make([]Interval, 0, len(current))
	for _, slot := range current {
		if slot.IsValid() {
			result = append(result, slot)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// Merge coalesces intervals into a minimal sorted set. Intervals are sorted
// by start ascending and merged whenever one starts on or before the running
// end of the previous merged interval, so touching intervals combine.
// Invalid inputs are dropped. Merge is idempotent.
func Merge(intervals []Interval) []Interval {
	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.IsValid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := make([]Interval, 0, len(valid))
	merged = append(merged, valid[0])
	for _, iv := range valid[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}

	return merged
}
