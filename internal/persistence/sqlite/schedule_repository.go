package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/studio-scheduler/internal/persistence"
)

// ScheduleRepository implements persistence.ScheduleRepository using SQLite.
type ScheduleRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const scheduleSelect = `
	SELECT s.id, s.class_type, s.class_date, s.time_start, s.time_end,
	       s.trainer_id, t.name, s.class_name, s.class_color, s.room,
	       s.capacity, s.created_at, s.updated_at
	FROM schedules s
	JOIN trainers t ON t.id = s.trainer_id
`

// CreateSchedule inserts a new schedule into the database.
func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule persistence.Schedule) error {
	if schedule.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO schedules (id, class_type, class_date, time_start, time_end,
			trainer_id, class_name, class_color, room, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		schedule.ID,
		schedule.ClassType,
		formatDate(schedule.Date),
		schedule.TimeStart,
		schedule.TimeEnd,
		schedule.TrainerID,
		schedule.ClassName,
		schedule.ClassColor,
		schedule.Room,
		schedule.Capacity,
		formatTime(schedule.CreatedAt),
		formatTime(schedule.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateSchedule updates an existing schedule.
func (r *ScheduleRepository) UpdateSchedule(ctx context.Context, schedule persistence.Schedule) error {
	if schedule.ID == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE schedules
		SET class_type = ?, class_date = ?, time_start = ?, time_end = ?,
			trainer_id = ?, class_name = ?, class_color = ?, room = ?,
			capacity = ?, updated_at = ?
		WHERE id = ?
	`,
		schedule.ClassType,
		formatDate(schedule.Date),
		schedule.TimeStart,
		schedule.TimeEnd,
		schedule.TrainerID,
		schedule.ClassName,
		schedule.ClassColor,
		schedule.Room,
		schedule.Capacity,
		formatTime(schedule.UpdatedAt),
		schedule.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return requireRowsAffected(result)
}

// GetSchedule retrieves a schedule by ID with the trainer name joined in.
func (r *ScheduleRepository) GetSchedule(ctx context.Context, id string) (persistence.Schedule, error) {
	if id == "" {
		return persistence.Schedule{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, scheduleSelect+" WHERE s.id = ?", id)

	schedule, err := scanSchedule(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Schedule{}, persistence.ErrNotFound
		}
		return persistence.Schedule{}, r.mapper.MapError(err)
	}

	return schedule, nil
}

// ListSchedules returns schedules matching the filter ordered by date then
// start time then ID.
func (r *ScheduleRepository) ListSchedules(ctx context.Context, filter persistence.ScheduleFilter) ([]persistence.Schedule, error) {
	query := scheduleSelect + " WHERE 1 = 1"
	var args []any

	if filter.ClassType != nil {
		query += " AND s.class_type = ?"
		args = append(args, *filter.ClassType)
	}
	if filter.TrainerID != nil {
		query += " AND s.trainer_id = ?"
		args = append(args, *filter.TrainerID)
	}
	if filter.DateFrom != nil {
		query += " AND s.class_date >= ?"
		args = append(args, formatDate(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query += " AND s.class_date <= ?"
		args = append(args, formatDate(*filter.DateTo))
	}

	query += " ORDER BY s.class_date ASC, s.time_start ASC, s.id ASC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var schedules []persistence.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return schedules, nil
}

// DeleteSchedule removes a schedule and its bookings.
func (r *ScheduleRepository) DeleteSchedule(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := r.helper.ExecTx(tx, "DELETE FROM bookings WHERE schedule_id = ?", id); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM schedules WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return requireRowsAffected(result)
	})
}

func scanSchedule(scan func(dest ...any) error) (persistence.Schedule, error) {
	var schedule persistence.Schedule
	var classDate, createdAt, updatedAt string

	err := scan(
		&schedule.ID,
		&schedule.ClassType,
		&classDate,
		&schedule.TimeStart,
		&schedule.TimeEnd,
		&schedule.TrainerID,
		&schedule.TrainerName,
		&schedule.ClassName,
		&schedule.ClassColor,
		&schedule.Room,
		&schedule.Capacity,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Schedule{}, err
	}

	if schedule.Date, err = parseDate("class_date", classDate); err != nil {
		return persistence.Schedule{}, err
	}
	if schedule.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.Schedule{}, err
	}
	if schedule.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return persistence.Schedule{}, err
	}

	return schedule, nil
}
