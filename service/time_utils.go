package service

import (
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey returns the UTC calendar day of t as YYYY-MM-DD
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// StartOfDay truncates t to midnight UTC
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInRange counts the UTC calendar days from start to end, both inclusive.
// Spans too long for time.Duration saturate instead of wrapping.
func DaysInRange(start, end time.Time) int {
	first := StartOfDay(start)
	last := StartOfDay(end)
	if last.Before(first) {
		return 0
	}
	return int(last.Sub(first)/(24*time.Hour)) + 1
}

// DaysBetween lists every UTC calendar day from start to end, both inclusive
func DaysBetween(start, end time.Time) []string {
	first := StartOfDay(start)
	last := StartOfDay(end)
	if last.Before(first) {
		return nil
	}

	days := make([]string, 0, DaysInRange(first, last))
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, day.Format(dayKeyLayout))
	}
	return days
}

// YearBounds returns the first instant of year and of the following year, in UTC
func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
