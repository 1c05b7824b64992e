// Package streak computes streak and consistency figures from a snapshot
// of completion dates. Everything here is a pure function of its inputs:
// callers pass the reference time and location, so results are stable and
// recomputable on every cache update without touching the network.
package streak

import (
	"math"
	"time"
)

// maxWalk bounds the backward walk. Not a product limit, just a
// termination guarantee against pathological inputs.
const maxWalk = 365

// DefaultWindow is the consistency window used by the stats views.
const DefaultWindow = 7

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func daySet(dates []time.Time, loc *time.Location) map[time.Time]bool {
	set := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		set[dayOf(d, loc)] = true
	}
	return set
}

// Current returns the number of consecutive calendar days with a completion,
// counted backward from today. A day with no completion yet today does not
// break the streak as long as yesterday is completed; a gap before that does.
func Current(dates []time.Time, now time.Time, loc *time.Location) int {
	if len(dates) == 0 {
		return 0
	}

	set := daySet(dates, loc)

	day := dayOf(now, loc)
	if !set[day] {
		day = day.AddDate(0, 0, -1)
		if !set[day] {
			return 0
		}
	}

	count := 0
	for set[day] && count < maxWalk {
		count++
		day = day.AddDate(0, 0, -1)
	}

	return count
}

// Consistency returns the percentage (0..100, rounded) of the trailing
// windowDays calendar days, today included, that have a completion.
// windowDays must be positive; callers own that invariant.
func Consistency(dates []time.Time, windowDays int, now time.Time, loc *time.Location) int {
	set := daySet(dates, loc)

	matched := 0
	day := dayOf(now, loc)
	for i := 0; i < windowDays; i++ {
		if set[day] {
			matched++
		}
		day = day.AddDate(0, 0, -1)
	}

	return int(math.Round(float64(matched) / float64(windowDays) * 100))
}

// Longest returns the longest run of consecutive completed days anywhere
// in the history, regardless of whether it is still alive.
func Longest(dates []time.Time, loc *time.Location) int {
	set := daySet(dates, loc)

	longest := 0
	for day := range set {
		// Only start counting at the beginning of a run.
		if set[day.AddDate(0, 0, -1)] {
			continue
		}

		run := 0
		for set[day] && run < maxWalk {
			run++
			day = day.AddDate(0, 0, 1)
		}
		if run > longest {
			longest = run
		}
	}

	return longest
}
