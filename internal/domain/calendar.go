package domain

import "time"

// AddMonths advances t by the given number of calendar months, clamping to the
// last valid day of the target month. Advancing Jan 31 by one month yields
// Feb 28 (or Feb 29 in a leap year), never Mar 2/3 as naive normalisation
// would produce.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month. Day 0 of the
// following month normalises to the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
