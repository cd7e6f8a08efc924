package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/studio-scheduler/internal/persistence"
)

// RecurringClassRepository implements persistence.RecurringClassRepository
// using SQLite.
type RecurringClassRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRecurringClassRepository creates a new SQLite recurring class repository.
func NewRecurringClassRepository(pool *ConnectionPool) *RecurringClassRepository {
	return &RecurringClassRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const recurringColumns = `id, class_type, weekdays, time_start, time_end, trainer_id,
	class_name, class_color, room, capacity, starts_on, ends_on, created_at, updated_at`

// CreateRecurringClass inserts a new weekly template.
func (r *RecurringClassRepository) CreateRecurringClass(ctx context.Context, template persistence.RecurringClass) error {
	if template.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO recurring_classes (`+recurringColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		template.ID,
		template.ClassType,
		encodeWeekdays(template.Weekdays),
		template.TimeStart,
		template.TimeEnd,
		template.TrainerID,
		template.ClassName,
		template.ClassColor,
		template.Room,
		template.Capacity,
		formatDate(template.StartsOn),
		nullableDate(template.EndsOn),
		formatTime(template.CreatedAt),
		formatTime(template.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetRecurringClass retrieves a template by ID.
func (r *RecurringClassRepository) GetRecurringClass(ctx context.Context, id string) (persistence.RecurringClass, error) {
	if id == "" {
		return persistence.RecurringClass{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+recurringColumns+` FROM recurring_classes WHERE id = ?`, id)

	template, err := scanRecurringClass(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.RecurringClass{}, persistence.ErrNotFound
		}
		return persistence.RecurringClass{}, r.mapper.MapError(err)
	}

	return template, nil
}

// ListRecurringClasses returns every template ordered by start date then ID.
func (r *RecurringClassRepository) ListRecurringClasses(ctx context.Context) ([]persistence.RecurringClass, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT `+recurringColumns+` FROM recurring_classes ORDER BY starts_on ASC, id ASC
	`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var templates []persistence.RecurringClass
	for rows.Next() {
		template, err := scanRecurringClass(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return templates, nil
}

// DeleteRecurringClass removes a template by ID.
func (r *RecurringClassRepository) DeleteRecurringClass(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM recurring_classes WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return requireRowsAffected(result)
}

func scanRecurringClass(scan func(dest ...any) error) (persistence.RecurringClass, error) {
	var template persistence.RecurringClass
	var weekdays, startsOn, createdAt, updatedAt string
	var endsOn sql.NullString

	err := scan(
		&template.ID,
		&template.ClassType,
		&weekdays,
		&template.TimeStart,
		&template.TimeEnd,
		&template.TrainerID,
		&template.ClassName,
		&template.ClassColor,
		&template.Room,
		&template.Capacity,
		&startsOn,
		&endsOn,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.RecurringClass{}, err
	}

	if template.Weekdays, err = decodeWeekdays(weekdays); err != nil {
		return persistence.RecurringClass{}, err
	}
	if template.StartsOn, err = parseDate("starts_on", startsOn); err != nil {
		return persistence.RecurringClass{}, err
	}
	if template.EndsOn, err = parseNullableDate("ends_on", endsOn); err != nil {
		return persistence.RecurringClass{}, err
	}
	if template.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.RecurringClass{}, err
	}
	if template.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return persistence.RecurringClass{}, err
	}

	return template, nil
}
