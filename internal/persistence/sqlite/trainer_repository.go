package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/studio-scheduler/internal/persistence"
)

// TrainerRepository implements persistence.TrainerRepository using SQLite.
type TrainerRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewTrainerRepository creates a new SQLite trainer repository.
func NewTrainerRepository(pool *ConnectionPool) *TrainerRepository {
	return &TrainerRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateTrainer inserts a new trainer into the database.
func (r *TrainerRepository) CreateTrainer(ctx context.Context, trainer persistence.Trainer) error {
	if trainer.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO trainers (id, name, specialty, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		trainer.ID,
		trainer.Name,
		trainer.Specialty,
		formatTime(trainer.CreatedAt),
		formatTime(trainer.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateTrainer updates an existing trainer.
func (r *TrainerRepository) UpdateTrainer(ctx context.Context, trainer persistence.Trainer) error {
	if trainer.ID == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE trainers SET name = ?, specialty = ?, updated_at = ? WHERE id = ?
	`,
		trainer.Name,
		trainer.Specialty,
		formatTime(trainer.UpdatedAt),
		trainer.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return requireRowsAffected(result)
}

// GetTrainer retrieves a trainer by ID.
func (r *TrainerRepository) GetTrainer(ctx context.Context, id string) (persistence.Trainer, error) {
	if id == "" {
		return persistence.Trainer{}, persistence.ErrNotFound
	}

	var trainer persistence.Trainer
	var createdAt, updatedAt string

	err := r.helper.QueryRow(ctx, `
		SELECT id, name, specialty, created_at, updated_at FROM trainers WHERE id = ?
	`, id).Scan(&trainer.ID, &trainer.Name, &trainer.Specialty, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Trainer{}, persistence.ErrNotFound
		}
		return persistence.Trainer{}, r.mapper.MapError(err)
	}

	if trainer.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.Trainer{}, err
	}
	if trainer.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return persistence.Trainer{}, err
	}

	return trainer, nil
}

// ListTrainers returns all trainers ordered by name then ID.
func (r *TrainerRepository) ListTrainers(ctx context.Context) ([]persistence.Trainer, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, name, specialty, created_at, updated_at FROM trainers ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var trainers []persistence.Trainer
	for rows.Next() {
		var trainer persistence.Trainer
		var createdAt, updatedAt string

		if err := rows.Scan(&trainer.ID, &trainer.Name, &trainer.Specialty, &createdAt, &updatedAt); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if trainer.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		if trainer.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
			return nil, err
		}

		trainers = append(trainers, trainer)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return trainers, nil
}

// DeleteTrainer removes a trainer. Trainers referenced by schedules or
// recurring templates cannot be deleted.
func (r *TrainerRepository) DeleteTrainer(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var referenceCount int
		err := r.helper.QueryRowTx(tx, `
			SELECT (SELECT COUNT(*) FROM schedules WHERE trainer_id = ?)
			     + (SELECT COUNT(*) FROM recurring_classes WHERE trainer_id = ?)
		`, id, id).Scan(&referenceCount)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if referenceCount > 0 {
			return persistence.ErrForeignKeyViolation
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM trainers WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return requireRowsAffected(result)
	})
}
