// Package workdays counts working days (Monday through Friday).
// Public holidays are not modeled; balances and interruption credits
// only ever deal in weekdays.
package workdays

import "time"

// Count returns the number of weekdays in [start, end] inclusive.
// Returns 0 when end is before start. Time-of-day is ignored.
func Count(start, end time.Time) int {
	start = truncate(start)
	end = truncate(end)
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
