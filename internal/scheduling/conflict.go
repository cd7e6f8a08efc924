// Package scheduling detects double-bookings between class instances.
package scheduling

import (
	"fmt"
	"time"
)

// ConflictType classifies the shared resource that caused a conflict.
type ConflictType string

const (
	// ConflictTrainer indicates the same trainer is booked twice at once.
	ConflictTrainer ConflictType = "trainer"
	// ConflictRoom indicates the same room is booked twice at once.
	ConflictRoom ConflictType = "room"
)

// Class is the minimal view of a schedule needed for conflict detection.
type Class struct {
	ID          string
	TrainerID   string
	Room        string
	Date        time.Time // civil date, midnight UTC
	StartMinute int       // minutes since midnight
	EndMinute   int
}

// Conflict describes one detected double-booking.
type Conflict struct {
	WithClassID string
	Type        ConflictType
	TrainerID   string
	Room        string
}

// ClockMinute parses a "HH:MM" clock string into minutes since midnight.
func ClockMinute(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// DetectConflicts compares a candidate class against existing classes and
// reports every trainer or room double-booking. The candidate's own ID is
// ignored so updates do not conflict with themselves.
func DetectConflicts(existing []Class, candidate Class) []Conflict {
	if candidate.EndMinute <= candidate.StartMinute {
		return nil
	}

	var conflicts []Conflict
	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}
		if !sameDate(other.Date, candidate.Date) {
			continue
		}
		if !overlaps(candidate.StartMinute, candidate.EndMinute, other.StartMinute, other.EndMinute) {
			continue
		}

		if candidate.TrainerID != "" && candidate.TrainerID == other.TrainerID {
			conflicts = append(conflicts, Conflict{
				WithClassID: other.ID,
				Type:        ConflictTrainer,
				TrainerID:   candidate.TrainerID,
			})
		}
		if candidate.Room != "" && candidate.Room == other.Room {
			conflicts = append(conflicts, Conflict{
				WithClassID: other.ID,
				Type:        ConflictRoom,
				Room:        candidate.Room,
			})
		}
	}
	return conflicts
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// overlaps treats intervals as half-open so back-to-back classes do not clash.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
