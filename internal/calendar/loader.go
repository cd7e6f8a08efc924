package calendar

import "sync"

// LoadState describes the loader's externally visible condition.
type LoadState int

const (
	// LoadIdle means no month has been requested yet.
	LoadIdle LoadState = iota
	// LoadPending means the latest requested month has not completed.
	LoadPending
	// LoadReady means the grid for the latest requested month is available.
	LoadReady
	// LoadFailed means the latest requested month's fetch errored. No grid
	// is exposed in this state; there is no partial or stale fallback.
	LoadFailed
)

// Loader coordinates month navigation against asynchronous schedule-map
// fetches. Each navigation issues a token; a completion is applied only when
// its token still matches the latest navigation, so a slow response for a
// month the user has since left is discarded rather than rendered.
type Loader[T any] struct {
	mu    sync.Mutex
	seq   uint64
	month Month
	state LoadState
	grid  Grid[T]
	err   error
}

// NewLoader returns a loader with no month requested.
func NewLoader[T any]() *Loader[T] {
	return &Loader[T]{}
}

// Navigate records the new target month and invalidates any outstanding
// fetch. The returned token must be passed to Complete.
func (l *Loader[T]) Navigate(m Month) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	l.month = m
	l.state = LoadPending
	l.err = nil
	return l.seq
}

// Complete applies a finished fetch. It reports whether the result was
// applied; a stale token leaves the loader untouched.
func (l *Loader[T]) Complete(token uint64, byDate map[string][]T, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if token != l.seq {
		return false
	}

	if err != nil {
		l.state = LoadFailed
		l.err = err
		l.grid = Grid[T]{}
		return true
	}

	l.state = LoadReady
	l.grid = BuildGrid(l.month, byDate)
	return true
}

// Month returns the latest requested month.
func (l *Loader[T]) Month() Month {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.month
}

// State returns the loader condition and, when ready, the current grid.
func (l *Loader[T]) State() (LoadState, Grid[T], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.grid, l.err
}
