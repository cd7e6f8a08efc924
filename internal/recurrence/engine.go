// Package recurrence expands weekly class templates into concrete class dates.
package recurrence

import (
	"errors"
	"time"
)

// Frequency represents supported recurrence intervals.
type Frequency int

const (
	// FrequencyUnspecified indicates the rule frequency is not set.
	FrequencyUnspecified Frequency = iota
	// FrequencyDaily generates a date for each day within the range.
	FrequencyDaily
	// FrequencyWeekly generates dates for the selected weekdays.
	FrequencyWeekly
)

// Rule describes a recurring class template's cadence.
type Rule struct {
	ID        string
	Frequency Frequency
	Weekdays  []time.Weekday
	StartsOn  time.Time
	EndsOn    *time.Time
}

// ErrInvalidFrequency indicates the recurrence frequency is not supported.
var ErrInvalidFrequency = errors.New("recurrence: invalid frequency")

// ErrInvalidWindow indicates the generation window is unbounded.
var ErrInvalidWindow = errors.New("recurrence: generation window requires an end bound")

// Engine expands recurrence rules into civil dates.
type Engine struct{}

// NewEngine constructs an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// GenerateDates produces the civil dates a rule occurs on within the given
// inclusive range. All returned dates are midnight UTC. The window is bounded
// by the rule's EndsOn and the range end; at least one of the two must be set.
func (e *Engine) GenerateDates(rule Rule, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	ruleStart := civilDate(rule.StartsOn)

	upperBound := civilDate(rangeEnd)
	hasUpper := !rangeEnd.IsZero()
	if rule.EndsOn != nil && !rule.EndsOn.IsZero() {
		ruleEnd := civilDate(*rule.EndsOn)
		if !hasUpper || ruleEnd.Before(upperBound) {
			upperBound = ruleEnd
		}
		hasUpper = true
	}
	if !hasUpper {
		return nil, ErrInvalidWindow
	}

	lowerBound := ruleStart
	if start := civilDate(rangeStart); !rangeStart.IsZero() && start.After(lowerBound) {
		lowerBound = start
	}
	if lowerBound.After(upperBound) {
		return nil, nil
	}

	weekdaySet := make(map[time.Weekday]struct{}, len(rule.Weekdays))
	for _, day := range rule.Weekdays {
		weekdaySet[day] = struct{}{}
	}

	dates := make([]time.Time, 0)
	for current := lowerBound; !current.After(upperBound); current = current.AddDate(0, 0, 1) {
		include, err := shouldInclude(rule.Frequency, weekdaySet, current.Weekday())
		if err != nil {
			return nil, err
		}
		if include {
			dates = append(dates, current)
		}
	}

	return dates, nil
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func shouldInclude(freq Frequency, weekdaySet map[time.Weekday]struct{}, day time.Weekday) (bool, error) {
	switch freq {
	case FrequencyDaily:
		if len(weekdaySet) == 0 {
			return true, nil
		}
		_, ok := weekdaySet[day]
		return ok, nil
	case FrequencyWeekly:
		if len(weekdaySet) == 0 {
			return false, nil
		}
		_, ok := weekdaySet[day]
		return ok, nil
	case FrequencyUnspecified:
		fallthrough
	default:
		return false, ErrInvalidFrequency
	}
}
