package entities

import (
	"math"
	"time"
)

// Status names the statistics summary matches on. They are seed data, not an
// enumeration: renaming a status in the database changes what is counted.
const (
	StatusNameCompleted  = "Completed"
	StatusNameInProgress = "In Progress"
	StatusNameNotStarted = "Not Started"
)

// User represents a person who owns or is assigned tasks
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Avatar    *string   `json:"avatar" db:"avatar"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Tasks         []*Task `json:"tasks,omitempty" db:"-"`
	AssignedTasks []*Task `json:"assignedTasks,omitempty" db:"-"`
}

// Category groups tasks by theme
type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Color       *string   `json:"color" db:"color"`
	Icon        *string   `json:"icon" db:"icon"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Count *TaskCount `json:"_count,omitempty" db:"-"`
	Tasks []*Task    `json:"tasks,omitempty" db:"-"`
}

// Reference is a configurable, ordered lookup row. Task statuses and task
// priorities share this shape.
type Reference struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     *string   `json:"color" db:"color"`
	Order     int       `json:"order" db:"sort_order"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Count *TaskCount `json:"_count,omitempty" db:"-"`
}

// TaskStatus classifies a task's progress
type TaskStatus = Reference

// TaskPriority classifies a task's urgency
type TaskPriority = Reference

// TaskCount is the number of tasks pointing at a row
type TaskCount struct {
	Tasks int64 `json:"tasks"`
}

// ReferenceKind tells status and priority tables apart
type ReferenceKind string

const (
	ReferenceStatus   ReferenceKind = "status"
	ReferencePriority ReferenceKind = "priority"
)

// Field returns the task payload field that points at this kind
func (k ReferenceKind) Field() string {
	return string(k) + "Id"
}

// Resource returns the capitalised name used in not-found messages
func (k ReferenceKind) Resource() string {
	switch k {
	case ReferenceStatus:
		return "Status"
	case ReferencePriority:
		return "Priority"
	default:
		return string(k)
	}
}

// Plural returns the collection name used in error messages
func (k ReferenceKind) Plural() string {
	switch k {
	case ReferenceStatus:
		return "statuses"
	case ReferencePriority:
		return "priorities"
	default:
		return string(k) + "s"
	}
}

// IsValid reports whether k is a known kind
func (k ReferenceKind) IsValid() bool {
	return k == ReferenceStatus || k == ReferencePriority
}

// Task represents a unit of work
type Task struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Image       *string    `json:"image" db:"image"`
	IsVital     bool       `json:"isVital" db:"is_vital"`
	DueDate     *time.Time `json:"dueDate" db:"due_date"`
	CompletedAt *time.Time `json:"completedAt" db:"completed_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	StatusID    string     `json:"statusId" db:"status_id"`
	PriorityID  string     `json:"priorityId" db:"priority_id"`
	CategoryID  *string    `json:"categoryId" db:"category_id"`
	OwnerID     string     `json:"ownerId" db:"owner_id"`
	AssigneeID  *string    `json:"assigneeId" db:"assignee_id"`

	Status   *TaskStatus   `json:"status,omitempty" db:"-"`
	Priority *TaskPriority `json:"priority,omitempty" db:"-"`
	Category *Category     `json:"category" db:"-"`
	Owner    *User         `json:"owner,omitempty" db:"-"`
	Assignee *User         `json:"assignee" db:"-"`
}

// TaskCounts holds the raw counts of the statistics summary
type TaskCounts struct {
	Total      int64 `db:"total"`
	Completed  int64 `db:"completed"`
	InProgress int64 `db:"in_progress"`
	NotStarted int64 `db:"not_started"`
	Vital      int64 `db:"vital"`
}

// TaskStats is the statistics summary returned to clients
type TaskStats struct {
	Total                int64 `json:"total"`
	Completed            int64 `json:"completed"`
	InProgress           int64 `json:"inProgress"`
	NotStarted           int64 `json:"notStarted"`
	Vital                int64 `json:"vital"`
	CompletedPercentage  int64 `json:"completedPercentage"`
	InProgressPercentage int64 `json:"inProgressPercentage"`
	NotStartedPercentage int64 `json:"notStartedPercentage"`
}

// NewTaskStats derives percentages from raw counts
func NewTaskStats(c TaskCounts) TaskStats {
	return TaskStats{
		Total:                c.Total,
		Completed:            c.Completed,
		InProgress:           c.InProgress,
		NotStarted:           c.NotStarted,
		Vital:                c.Vital,
		CompletedPercentage:  Percentage(c.Completed, c.Total),
		InProgressPercentage: Percentage(c.InProgress, c.Total),
		NotStartedPercentage: Percentage(c.NotStarted, c.Total),
	}
}

// Percentage returns round(part/total*100), or 0 when total is 0
func Percentage(part, total int64) int64 {
	if total <= 0 {
		return 0
	}
	return int64(math.Round(float64(part) / float64(total) * 100))
}
