package models

import "time"

// Overlaps reports whether the half-open date ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. A stay ending the day another begins does not
// overlap: check-out morning and check-in afternoon may share a date.
//
// Every conflict check in the codebase must go through this predicate (or
// the equivalent two-sided SQL inequality) so the create and update paths
// cannot drift apart.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DateOnly truncates t to midnight UTC. Reservations carry calendar dates,
// not instants; normalizing here keeps Overlaps exact regardless of the
// time-of-day or zone the caller parsed.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
