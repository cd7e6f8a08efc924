// Package sqlite provides SQLite-backed implementations of the persistence
// repositories. All timestamps are stored as RFC3339 strings and civil dates
// as "YYYY-MM-DD" so lexical comparisons match chronological order.
package sqlite

import (
	"context"

	"github.com/example/studio-scheduler/internal/persistence"
)

// Storage bundles every SQLite repository behind one connection pool.
type Storage struct {
	pool *ConnectionPool

	Members         persistence.MemberRepository
	Trainers        persistence.TrainerRepository
	Schedules       persistence.ScheduleRepository
	Bookings        persistence.BookingRepository
	Packages        persistence.PackageRepository
	Orders          persistence.OrderRepository
	Sessions        persistence.SessionRepository
	RecurringClasses persistence.RecurringClassRepository
}

// Open opens a file-backed storage with default settings.
func Open(dsn string) (*Storage, error) {
	return OpenWithConfig(DefaultConfig(dsn))
}

// OpenWithConfig opens storage using an explicit SQLite configuration.
func OpenWithConfig(config Config) (*Storage, error) {
	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}

	return &Storage{
		pool:             pool,
		Members:          NewMemberRepository(pool),
		Trainers:         NewTrainerRepository(pool),
		Schedules:        NewScheduleRepository(pool),
		Bookings:         NewBookingRepository(pool),
		Packages:         NewPackageRepository(pool),
		Orders:           NewOrderRepository(pool),
		Sessions:         NewSessionRepository(pool),
		RecurringClasses: NewRecurringClassRepository(pool),
	}, nil
}

// Migrate applies pending schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// Ping tests the underlying connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}
