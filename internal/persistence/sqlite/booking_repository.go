package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const bookingSelect = `
	SELECT b.id, b.schedule_id, b.member_id, m.display_name, b.status,
	       b.created_at, b.updated_at
	FROM bookings b
	JOIN members m ON m.id = b.member_id
`

// CreateBooking inserts a new booking row.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO bookings (id, schedule_id, member_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		booking.ID,
		booking.ScheduleID,
		booking.MemberID,
		booking.Status,
		formatTime(booking.CreatedAt),
		formatTime(booking.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetBooking retrieves a booking by ID with the member name joined in.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, bookingSelect+" WHERE b.id = ?", id)

	booking, err := scanBooking(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, r.mapper.MapError(err)
	}

	return booking, nil
}

// UpdateBookingStatus moves a booking to a new lifecycle status and returns
// the updated row.
func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id string, status string, updatedAt time.Time) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?",
		status, formatTime(updatedAt), id,
	)
	if err != nil {
		return persistence.Booking{}, r.mapper.MapError(err)
	}
	if err := requireRowsAffected(result); err != nil {
		return persistence.Booking{}, err
	}

	return r.GetBooking(ctx, id)
}

// ListBookingsForSchedule returns every booking on the schedule ordered by
// creation timestamp then ID.
func (r *BookingRepository) ListBookingsForSchedule(ctx context.Context, scheduleID string) ([]persistence.Booking, error) {
	rows, err := r.helper.Query(ctx,
		bookingSelect+" WHERE b.schedule_id = ? ORDER BY b.created_at ASC, b.id ASC",
		scheduleID,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return bookings, nil
}

func scanBooking(scan func(dest ...any) error) (persistence.Booking, error) {
	var booking persistence.Booking
	var createdAt, updatedAt string

	err := scan(
		&booking.ID,
		&booking.ScheduleID,
		&booking.MemberID,
		&booking.MemberName,
		&booking.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Booking{}, err
	}

	if booking.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return persistence.Booking{}, err
	}

	return booking, nil
}
