package schedule

import (
	"math"
	"time"
)

// Clamp floors a raw model output at zero. Regression models trained on
// interval data can emit small negative values for unusual inputs; a negative
// interval has no calendar meaning.
func Clamp(raw float64) float64 {
	if raw < 0 {
		return 0
	}
	return raw
}

// Effective converts a raw model output (months, possibly negative or
// fractional) into the whole number of months used for date projection:
// clamp at zero, round to the nearest integer, floor at one. Ties round half
// away from zero (0.5 becomes 1), per math.Round.
func Effective(raw float64) int {
	months := int(math.Round(Clamp(raw)))
	if months < 1 {
		return 1
	}
	return months
}

// Project advances a date by whole calendar months. The day of month is kept
// when the target month has it and otherwise clamped to the last valid day,
// so Jan 31 plus one month is Feb 29 in a leap year and Feb 28 otherwise.
// time.AddDate is not usable here: it normalizes overflow forward (Jan 31
// plus one month would land on Mar 2 or Mar 3).
func Project(last time.Time, months int) time.Time {
	y, m, d := last.Date()
	total := int(m) - 1 + months
	y += total / 12
	rem := total % 12
	if rem < 0 {
		rem += 12
		y--
	}
	month := time.Month(rem + 1)
	if n := daysIn(y, month); d > n {
		d = n
	}
	return time.Date(y, month, d, 0, 0, 0, 0, last.Location())
}

// Due combines Effective and Project: it returns the whole months used for
// projection and the resulting due date.
func Due(lastService time.Time, raw float64) (int, time.Time) {
	months := Effective(raw)
	return months, Project(lastService, months)
}

// daysIn returns the number of days in the given month. Day 0 of the next
// month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
