package ports

import (
	"context"

	"github.com/taskboard/core/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.User, error)
}

// CategoryRepository defines the interface for category data operations.
// List results carry task counts.
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) error
	GetByID(ctx context.Context, id string) (*entities.Category, error)
	Update(ctx context.Context, category *entities.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.Category, error)
}

// ReferenceRepository defines the interface for status and priority tables.
// One instance serves one kind. List results carry task counts and are
// ordered by sort order.
type ReferenceRepository interface {
	Kind() entities.ReferenceKind
	Create(ctx context.Context, ref *entities.Reference) error
	GetByID(ctx context.Context, id string) (*entities.Reference, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, ref *entities.Reference) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.Reference, error)
}

// TaskRepository defines the interface for task data operations.
// GetByID and List return joined rows with status, priority, category,
// owner and assignee embedded.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id string) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	Counts(ctx context.Context) (entities.TaskCounts, error)
}

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Repositories bundles every repository built over one store handle
type Repositories struct {
	Users      UserRepository
	Categories CategoryRepository
	Statuses   ReferenceRepository
	Priorities ReferenceRepository
	Tasks      TaskRepository
	Health     HealthChecker
}

// Reference returns the repository serving kind
func (r Repositories) Reference(kind entities.ReferenceKind) ReferenceRepository {
	if kind == entities.ReferencePriority {
		return r.Priorities
	}
	return r.Statuses
}

// TaskFilter narrows task queries. Nil fields impose no constraint; set
// fields are combined with AND.
type TaskFilter struct {
	StatusName   *string
	PriorityName *string
	CategoryName *string
	OwnerID      *string
	IsVital      *bool

	StatusID   *string
	PriorityID *string
	CategoryID *string
	AssigneeID *string
}

// ReferenceFilter returns a filter matching tasks that point at a status or
// priority row
func ReferenceFilter(kind entities.ReferenceKind, id string) TaskFilter {
	if kind == entities.ReferencePriority {
		return TaskFilter{PriorityID: &id}
	}
	return TaskFilter{StatusID: &id}
}
