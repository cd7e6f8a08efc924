package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TrainerRepository captures the persistence operations needed by the trainer service.
type TrainerRepository interface {
	CreateTrainer(ctx context.Context, trainer Trainer) (Trainer, error)
	GetTrainer(ctx context.Context, id string) (Trainer, error)
	UpdateTrainer(ctx context.Context, trainer Trainer) (Trainer, error)
	DeleteTrainer(ctx context.Context, id string) error
	ListTrainers(ctx context.Context) ([]Trainer, error)
}

// TrainerService orchestrates validation, authorization, and persistence for trainers.
type TrainerService struct {
	trainers    TrainerRepository
	idGenerator func() string
	now         func() time.Time
}

// NewTrainerService wires dependencies for the trainer service.
func NewTrainerService(trainers TrainerRepository, idGenerator func() string, now func() time.Time) *TrainerService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TrainerService{trainers: trainers, idGenerator: idGenerator, now: now}
}

// CreateTrainer validates input and persists a new trainer for administrators.
func (s *TrainerService) CreateTrainer(ctx context.Context, params CreateTrainerParams) (Trainer, error) {
	if s == nil {
		return Trainer{}, fmt.Errorf("TrainerService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Trainer{}, ErrUnauthorized
	}
	if s.trainers == nil {
		return Trainer{}, fmt.Errorf("trainer repository not configured")
	}

	normalized := normalizeTrainerInput(params.Input)
	vErr := validateTrainerInput(normalized)
	if vErr.HasErrors() {
		return Trainer{}, vErr
	}

	trainer := Trainer{
		ID:        s.idGenerator(),
		Name:      normalized.Name,
		Specialty: normalized.Specialty,
		CreatedAt: s.now(),
	}
	trainer.UpdatedAt = trainer.CreatedAt

	persisted, err := s.trainers.CreateTrainer(ctx, trainer)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return Trainer{}, ErrAlreadyExists
		}
		return Trainer{}, err
	}

	return persisted, nil
}

// UpdateTrainer validates input and updates an existing trainer for administrators.
func (s *TrainerService) UpdateTrainer(ctx context.Context, params UpdateTrainerParams) (Trainer, error) {
	if s == nil {
		return Trainer{}, fmt.Errorf("TrainerService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Trainer{}, ErrUnauthorized
	}
	if s.trainers == nil {
		return Trainer{}, fmt.Errorf("trainer repository not configured")
	}

	existing, err := s.trainers.GetTrainer(ctx, params.TrainerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Trainer{}, ErrNotFound
		}
		return Trainer{}, err
	}

	normalized := normalizeTrainerInput(params.Input)
	vErr := validateTrainerInput(normalized)
	if vErr.HasErrors() {
		return Trainer{}, vErr
	}

	updated := existing
	updated.Name = normalized.Name
	updated.Specialty = normalized.Specialty
	updated.UpdatedAt = s.now()

	persisted, err := s.trainers.UpdateTrainer(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Trainer{}, ErrNotFound
		}
		return Trainer{}, err
	}

	return persisted, nil
}

// DeleteTrainer removes a trainer when requested by an administrator.
func (s *TrainerService) DeleteTrainer(ctx context.Context, principal Principal, trainerID string) error {
	if s == nil {
		return fmt.Errorf("TrainerService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.trainers == nil {
		return fmt.Errorf("trainer repository not configured")
	}

	if err := s.trainers.DeleteTrainer(ctx, trainerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

// ListTrainers returns the trainer roster for any authenticated principal.
func (s *TrainerService) ListTrainers(ctx context.Context) ([]Trainer, error) {
	if s == nil {
		return nil, fmt.Errorf("TrainerService is nil")
	}
	if s.trainers == nil {
		return nil, nil
	}

	trainers, err := s.trainers.ListTrainers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Trainer, len(trainers))
	copy(out, trainers)

	sort.Slice(out, func(i, j int) bool {
		if strings.EqualFold(out[i].Name, out[j].Name) {
			return out[i].ID < out[j].ID
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})

	return out, nil
}

func normalizeTrainerInput(input TrainerInput) TrainerInput {
	return TrainerInput{
		Name:      strings.TrimSpace(input.Name),
		Specialty: strings.TrimSpace(input.Specialty),
	}
}

func validateTrainerInput(input TrainerInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}

	return vErr
}
