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

// UserService handles user operations
type UserService struct {
	userRepo ports.UserRepository
	taskRepo ports.TaskRepository
	logger   *logger.Logger
	now      func() time.Time
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, taskRepo ports.TaskRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		logger:   logger.WithComponent("user_service"),
		now:      time.Now,
	}
}

// ListUsers returns users ordered by name
func (s *UserService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user with owned and assigned tasks, newest first
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned, err := s.taskRepo.List(ctx, ports.TaskFilter{OwnerID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list owned tasks: %w", err)
	}
	assigned, err := s.taskRepo.List(ctx, ports.TaskFilter{AssigneeID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}

	user.Tasks = nonNilTasks(owned)
	user.AssignedTasks = nonNilTasks(assigned)
	return user, nil
}

// CreateUser inserts a new user
func (s *UserService) CreateUser(ctx context.Context, in ports.UserInput) (*entities.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &entities.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Avatar:    in.Avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.LogMutation("User", "created", user.ID)
	return user, nil
}

// ReplaceUser overwrites every mutable field of an existing user
func (s *UserService) ReplaceUser(ctx context.Context, id string, in ports.UserInput) (*entities.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = in.Name
	user.Email = in.Email
	user.Avatar = in.Avatar
	user.UpdatedAt = s.now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.LogMutation("User", "updated", id)
	return user, nil
}

// DeleteUser removes a user. Assigned tasks lose their assignee; a user who
// still owns tasks cannot be removed and the store error is returned.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.LogMutation("User", "deleted", id)
	return nil
}
