// Package calendar builds the full-week month grids used by the admin
// scheduling view and answers per-date schedule lookups.
//
// A grid always spans complete Sunday-to-Saturday weeks: the first cell is
// the Sunday on or before the first of the target month, the last cell the
// Saturday on or after its final day. Cells belonging to adjacent months are
// retained so schedules returned for those dates stay inspectable.
package calendar

import "time"

// Cell is one renderable day of a month grid.
type Cell[T any] struct {
	Date           time.Time
	DayOfMonth     int
	IsCurrentMonth bool
	HasSchedule    bool
	Schedules      []T
}

// Interactive reports whether the cell can open the detail panel. Dimmed
// adjacent-month cells stay interactive when the API returned schedules for
// them, so month-boundary records remain reachable.
func (c Cell[T]) Interactive() bool {
	return c.IsCurrentMonth || c.HasSchedule
}

// Grid is the renderable matrix for one month plus its lookup map.
type Grid[T any] struct {
	Month Month
	Cells []Cell[T]

	byDate map[string][]T
}

// BuildGrid enumerates every day from the grid start to the grid end and
// annotates each with the schedules the map holds for that date. The map's
// per-date ordering is preserved as delivered; the builder never re-sorts.
func BuildGrid[T any](m Month, byDate map[string][]T) Grid[T] {
	start := GridStart(FirstOfMonth(m))
	end := GridEnd(LastOfMonth(m))

	cells := make([]Cell[T], 0, 42)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		schedules := byDate[DateKey(day)]
		cells = append(cells, Cell[T]{
			Date:           day,
			DayOfMonth:     day.Day(),
			IsCurrentMonth: m.Contains(day),
			HasSchedule:    len(schedules) > 0,
			Schedules:      schedules,
		})
	}

	return Grid[T]{Month: m, Cells: cells, byDate: byDate}
}

// Weeks returns the cell count divided into rows of seven.
func (g Grid[T]) Weeks() int {
	return len(g.Cells) / 7
}

// SchedulesOn returns the schedules for a date. The result is never nil; a
// date absent from the map yields an empty slice. Repeated calls against the
// same grid always yield the same sequence.
func (g Grid[T]) SchedulesOn(day time.Time) []T {
	if schedules, ok := g.byDate[DateKey(day)]; ok && schedules != nil {
		return schedules
	}
	return []T{}
}
