package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// ReferenceService manages task statuses or task priorities
type ReferenceService struct {
	refRepo  ports.ReferenceRepository
	taskRepo ports.TaskRepository
	logger   *logger.Logger
	now      func() time.Time
}

// NewReferenceService creates a service for the kind served by refRepo
func NewReferenceService(refRepo ports.ReferenceRepository, taskRepo ports.TaskRepository, logger *logger.Logger) *ReferenceService {
	return &ReferenceService{
		refRepo:  refRepo,
		taskRepo: taskRepo,
		logger:   logger.WithComponent(string(refRepo.Kind()) + "_service"),
		now:      time.Now,
	}
}

// Kind reports which table this service manages
func (s *ReferenceService) Kind() entities.ReferenceKind {
	return s.refRepo.Kind()
}

// List returns every row ordered by sort order, with task counts
func (s *ReferenceService) List(ctx context.Context) ([]*entities.Reference, error) {
	refs, err := s.refRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.Kind().Plural(), err)
	}
	return refs, nil
}

// Get retrieves one row
func (s *ReferenceService) Get(ctx context.Context, id string) (*entities.Reference, error) {
	return s.refRepo.GetByID(ctx, id)
}

// Create inserts a row; order defaults to 0
func (s *ReferenceService) Create(ctx context.Context, in ports.ReferenceInput) (*entities.Reference, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ref := &entities.Reference{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Color:     in.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Order != nil {
		ref.Order = *in.Order
	}

	if err := s.refRepo.Create(ctx, ref); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.Kind(), err)
	}

	s.logger.LogMutation(s.Kind().Resource(), "created", ref.ID)
	return ref, nil
}

// Replace overwrites every mutable field of an existing row
func (s *ReferenceService) Replace(ctx context.Context, id string, in ports.ReferenceInput) (*entities.Reference, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	ref, err := s.refRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ref.Name = in.Name
	ref.Color = in.Color
	ref.Order = 0
	if in.Order != nil {
		ref.Order = *in.Order
	}
	ref.UpdatedAt = s.now().UTC()
	ref.Count = nil

	if err := s.refRepo.Update(ctx, ref); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.Kind(), err)
	}

	s.logger.LogMutation(s.Kind().Resource(), "updated", id)
	return ref, nil
}

// Delete removes a row no task points at. A row still in use is left in
// place and reported with a GuardError.
func (s *ReferenceService) Delete(ctx context.Context, id string) error {
	n, err := s.taskRepo.Count(ctx, ports.ReferenceFilter(s.Kind(), id))
	if err != nil {
		return fmt.Errorf("failed to count tasks using %s: %w", s.Kind(), err)
	}
	if n > 0 {
		return &entities.GuardError{Kind: s.Kind(), Count: n}
	}

	if err := s.refRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.LogMutation(s.Kind().Resource(), "deleted", id)
	return nil
}
