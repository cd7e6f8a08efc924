package calendar

import (
	"fmt"
	"time"
)

// Month identifies a calendar month without a day component.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing the given instant.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Next returns the following month, carrying the year across December.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Prev returns the preceding month, borrowing the year across January.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Contains reports whether the given day falls within the month.
func (m Month) Contains(day time.Time) bool {
	return day.Year() == m.Year && day.Month() == m.Month
}

// String renders the month as "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
