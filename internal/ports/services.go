package ports

import (
	"context"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/domain/optional"
)

// TaskService interface for task management operations
type TaskService interface {
	CreateTask(ctx context.Context, in CreateTaskInput) (*entities.Task, error)
	GetTask(ctx context.Context, id string) (*entities.Task, error)
	UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (*entities.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)
	GetStats(ctx context.Context) (*entities.TaskStats, error)
}

// UserService interface for user management operations
type UserService interface {
	CreateUser(ctx context.Context, in UserInput) (*entities.User, error)
	GetUser(ctx context.Context, id string) (*entities.User, error)
	ReplaceUser(ctx context.Context, id string, in UserInput) (*entities.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]*entities.User, error)
}

// CategoryService interface for category management operations
type CategoryService interface {
	CreateCategory(ctx context.Context, in CategoryInput) (*entities.Category, error)
	GetCategory(ctx context.Context, id string) (*entities.Category, error)
	ReplaceCategory(ctx context.Context, id string, in CategoryInput) (*entities.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]*entities.Category, error)
}

// ReferenceService manages one kind of configurable task reference data
type ReferenceService interface {
	Kind() entities.ReferenceKind
	Create(ctx context.Context, in ReferenceInput) (*entities.Reference, error)
	Get(ctx context.Context, id string) (*entities.Reference, error)
	Replace(ctx context.Context, id string, in ReferenceInput) (*entities.Reference, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.Reference, error)
}

// Request types

// CreateTaskInput is the payload of POST /tasks. Required fields come first;
// missing ones are reported in declaration order.
type CreateTaskInput struct {
	Title      string `json:"title" validate:"required"`
	StatusID   string `json:"statusId" validate:"required"`
	PriorityID string `json:"priorityId" validate:"required"`
	OwnerID    string `json:"ownerId" validate:"required"`

	Description *string `json:"description"`
	Image       *string `json:"image"`
	IsVital     *bool   `json:"isVital"`
	DueDate     *string `json:"dueDate"`
	CategoryID  *string `json:"categoryId"`
	AssigneeID  *string `json:"assigneeId"`
}

// UpdateTaskInput is the payload of PATCH /tasks/:id. Each field is unset,
// null or a value.
type UpdateTaskInput struct {
	Title       optional.Field[string] `json:"title"`
	Description optional.Field[string] `json:"description"`
	Image       optional.Field[string] `json:"image"`
	IsVital     optional.Field[bool]   `json:"isVital"`
	DueDate     optional.Field[string] `json:"dueDate"`
	CompletedAt optional.Field[string] `json:"completedAt"`
	StatusID    optional.Field[string] `json:"statusId"`
	PriorityID  optional.Field[string] `json:"priorityId"`
	CategoryID  optional.Field[string] `json:"categoryId"`
	AssigneeID  optional.Field[string] `json:"assigneeId"`
}

// UserInput is the payload of POST /users and PUT /users/:id
type UserInput struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Avatar *string `json:"avatar"`
}

// CategoryInput is the payload of POST /categories and PUT /categories/:id
type CategoryInput struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
}

// ReferenceInput is the payload for creating or replacing a status or priority
type ReferenceInput struct {
	Name  string  `json:"name" validate:"required"`
	Color *string `json:"color"`
	Order *int    `json:"order"`
}
