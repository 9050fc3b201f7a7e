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

// TaskService runs the task mutation and validation pipeline
type TaskService struct {
	taskRepo     ports.TaskRepository
	statusRepo   ports.ReferenceRepository
	priorityRepo ports.ReferenceRepository
	logger       *logger.Logger
	now          func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, statusRepo, priorityRepo ports.ReferenceRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		statusRepo:   statusRepo,
		priorityRepo: priorityRepo,
		logger:       logger.WithComponent("task_service"),
		now:          time.Now,
	}
}

// CreateTask validates the payload and inserts a new task. Checks run in
// order and the first failure aborts before anything is written.
func (s *TaskService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*entities.Task, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if err := checkReference(ctx, s.statusRepo, in.StatusID); err != nil {
		return nil, err
	}
	if err := checkReference(ctx, s.priorityRepo, in.PriorityID); err != nil {
		return nil, err
	}

	dueDate, err := parseOptionalTimestamp("dueDate", in.DueDate)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &entities.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		DueDate:     dueDate,
		StatusID:    in.StatusID,
		PriorityID:  in.PriorityID,
		CategoryID:  in.CategoryID,
		OwnerID:     in.OwnerID,
		AssigneeID:  in.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsVital != nil {
		task.IsVital = *in.IsVital
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.LogMutation("Task", "created", task.ID)

	return s.taskRepo.GetByID(ctx, task.ID)
}

// GetTask retrieves a task with its relations
func (s *TaskService) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// UpdateTask merges the fields present in the payload onto the stored task
func (s *TaskService) UpdateTask(ctx context.Context, id string, in ports.UpdateTaskInput) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title, hasTitle, err := requiredString("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.IsVital.IsNull() {
		return nil, entities.NewNullFieldError("isVital")
	}
	statusID, hasStatus, err := requiredString("statusId", in.StatusID)
	if err != nil {
		return nil, err
	}
	priorityID, hasPriority, err := requiredString("priorityId", in.PriorityID)
	if err != nil {
		return nil, err
	}

	if hasStatus {
		if err := checkReference(ctx, s.statusRepo, statusID); err != nil {
			return nil, err
		}
	}
	if hasPriority {
		if err := checkReference(ctx, s.priorityRepo, priorityID); err != nil {
			return nil, err
		}
	}

	merged := *task
	if err := mergeTimestamp("dueDate", in.DueDate, &merged.DueDate); err != nil {
		return nil, err
	}
	if err := mergeTimestamp("completedAt", in.CompletedAt, &merged.CompletedAt); err != nil {
		return nil, err
	}

	if hasTitle {
		merged.Title = title
	}
	if hasStatus {
		merged.StatusID = statusID
	}
	if hasPriority {
		merged.PriorityID = priorityID
	}
	in.IsVital.ApplyTo(&merged.IsVital)
	in.Description.ApplyToPtr(&merged.Description)
	in.Image.ApplyToPtr(&merged.Image)
	in.CategoryID.ApplyToPtr(&merged.CategoryID)
	in.AssigneeID.ApplyToPtr(&merged.AssigneeID)
	merged.UpdatedAt = s.now().UTC()

	if err := s.taskRepo.Update(ctx, &merged); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.LogMutation("Task", "updated", id)

	return s.taskRepo.GetByID(ctx, id)
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.LogMutation("Task", "deleted", id)
	return nil
}

// ListTasks returns tasks matching filter, newest first
func (s *TaskService) ListTasks(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetStats computes the task statistics summary
func (s *TaskService) GetStats(ctx context.Context) (*entities.TaskStats, error) {
	counts, err := s.taskRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	stats := entities.NewTaskStats(counts)
	return &stats, nil
}

// checkReference confirms a status or priority id resolves to a row
func checkReference(ctx context.Context, repo ports.ReferenceRepository, id string) error {
	ok, err := repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", repo.Kind(), err)
	}
	if !ok {
		return &entities.ReferenceError{Kind: repo.Kind(), ID: id}
	}
	return nil
}
