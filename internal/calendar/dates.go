package calendar

import "time"

// ISODate is the key format used by the schedule map ("YYYY-MM-DD").
const ISODate = "2006-01-02"

// FirstOfMonth returns midnight UTC on the first day of the month.
func FirstOfMonth(m Month) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastOfMonth returns midnight UTC on the last day of the month.
func LastOfMonth(m Month) time.Time {
	return FirstOfMonth(m).AddDate(0, 1, -1)
}

// GridStart returns the Sunday on or before the given day.
func GridStart(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// GridEnd returns the Saturday on or after the given day.
func GridEnd(day time.Time) time.Time {
	return day.AddDate(0, 0, int(time.Saturday-day.Weekday()))
}

// DateKey formats a day as the ISO key used by schedule maps.
func DateKey(day time.Time) string {
	return day.Format(ISODate)
}

// ParseDateKey parses an ISO date key into a midnight UTC instant.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(ISODate, key)
}
