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

// CategoryService handles category operations
type CategoryService struct {
	categoryRepo ports.CategoryRepository
	taskRepo     ports.TaskRepository
	logger       *logger.Logger
	now          func() time.Time
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo ports.CategoryRepository, taskRepo ports.TaskRepository, logger *logger.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		taskRepo:     taskRepo,
		logger:       logger.WithComponent("category_service"),
		now:          time.Now,
	}
}

// ListCategories returns categories by name, with task counts
func (s *CategoryService) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory retrieves a category with its tasks, newest first
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*entities.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, ports.TaskFilter{CategoryID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list category tasks: %w", err)
	}
	category.Tasks = nonNilTasks(tasks)

	return category, nil
}

// CreateCategory inserts a new category
func (s *CategoryService) CreateCategory(ctx context.Context, in ports.CategoryInput) (*entities.Category, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	category := &entities.Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.LogMutation("Category", "created", category.ID)
	return category, nil
}

// ReplaceCategory overwrites every mutable field of an existing category
func (s *CategoryService) ReplaceCategory(ctx context.Context, id string, in ports.CategoryInput) (*entities.Category, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Description = in.Description
	category.Color = in.Color
	category.Icon = in.Icon
	category.UpdatedAt = s.now().UTC()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.logger.LogMutation("Category", "updated", id)
	return category, nil
}

// DeleteCategory removes a category. Its tasks keep existing with no category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.LogMutation("Category", "deleted", id)
	return nil
}

func nonNilTasks(tasks []*entities.Task) []*entities.Task {
	if tasks == nil {
		return []*entities.Task{}
	}
	return tasks
}
