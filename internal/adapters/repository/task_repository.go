package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db sqlx.ExtContext
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db sqlx.ExtContext) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

const taskJoinedSelect = `
	SELECT t.id, t.title, t.description, t.image, t.is_vital, t.due_date, t.completed_at,
		t.created_at, t.updated_at, t.status_id, t.priority_id, t.category_id, t.owner_id, t.assignee_id,
		s.name AS status_name, s.color AS status_color, s.sort_order AS status_order,
		s.created_at AS status_created_at, s.updated_at AS status_updated_at,
		p.name AS priority_name, p.color AS priority_color, p.sort_order AS priority_order,
		p.created_at AS priority_created_at, p.updated_at AS priority_updated_at,
		c.name AS category_name, c.description AS category_description, c.color AS category_color,
		c.icon AS category_icon, c.created_at AS category_created_at, c.updated_at AS category_updated_at,
		o.name AS owner_name, o.email AS owner_email, o.avatar AS owner_avatar,
		o.created_at AS owner_created_at, o.updated_at AS owner_updated_at,
		a.name AS assignee_name, a.email AS assignee_email, a.avatar AS assignee_avatar,
		a.created_at AS assignee_created_at, a.updated_at AS assignee_updated_at
	FROM tasks t
	JOIN task_statuses s ON s.id = t.status_id
	JOIN task_priorities p ON p.id = t.priority_id
	JOIN users o ON o.id = t.owner_id
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN users a ON a.id = t.assignee_id`

// taskRow is one row of taskJoinedSelect. Category and assignee columns are
// NULL when the task has none.
type taskRow struct {
	entities.Task

	StatusName      string    `db:"status_name"`
	StatusColor     *string   `db:"status_color"`
	StatusOrder     int       `db:"status_order"`
	StatusCreatedAt time.Time `db:"status_created_at"`
	StatusUpdatedAt time.Time `db:"status_updated_at"`

	PriorityName      string    `db:"priority_name"`
	PriorityColor     *string   `db:"priority_color"`
	PriorityOrder     int       `db:"priority_order"`
	PriorityCreatedAt time.Time `db:"priority_created_at"`
	PriorityUpdatedAt time.Time `db:"priority_updated_at"`

	CategoryName        *string    `db:"category_name"`
	CategoryDescription *string    `db:"category_description"`
	CategoryColor       *string    `db:"category_color"`
	CategoryIcon        *string    `db:"category_icon"`
	CategoryCreatedAt   *time.Time `db:"category_created_at"`
	CategoryUpdatedAt   *time.Time `db:"category_updated_at"`

	OwnerName      string    `db:"owner_name"`
	OwnerEmail     string    `db:"owner_email"`
	OwnerAvatar    *string   `db:"owner_avatar"`
	OwnerCreatedAt time.Time `db:"owner_created_at"`
	OwnerUpdatedAt time.Time `db:"owner_updated_at"`

	AssigneeName      *string    `db:"assignee_name"`
	AssigneeEmail     *string    `db:"assignee_email"`
	AssigneeAvatar    *string    `db:"assignee_avatar"`
	AssigneeCreatedAt *time.Time `db:"assignee_created_at"`
	AssigneeUpdatedAt *time.Time `db:"assignee_updated_at"`
}

func (row *taskRow) toTask() *entities.Task {
	task := row.Task

	task.Status = &entities.TaskStatus{
		ID:        task.StatusID,
		Name:      row.StatusName,
		Color:     row.StatusColor,
		Order:     row.StatusOrder,
		CreatedAt: row.StatusCreatedAt,
		UpdatedAt: row.StatusUpdatedAt,
	}
	task.Priority = &entities.TaskPriority{
		ID:        task.PriorityID,
		Name:      row.PriorityName,
		Color:     row.PriorityColor,
		Order:     row.PriorityOrder,
		CreatedAt: row.PriorityCreatedAt,
		UpdatedAt: row.PriorityUpdatedAt,
	}
	task.Owner = &entities.User{
		ID:        task.OwnerID,
		Name:      row.OwnerName,
		Email:     row.OwnerEmail,
		Avatar:    row.OwnerAvatar,
		CreatedAt: row.OwnerCreatedAt,
		UpdatedAt: row.OwnerUpdatedAt,
	}

	if task.CategoryID != nil && row.CategoryName != nil {
		task.Category = &entities.Category{
			ID:          *task.CategoryID,
			Name:        *row.CategoryName,
			Description: row.CategoryDescription,
			Color:       row.CategoryColor,
			Icon:        row.CategoryIcon,
			CreatedAt:   derefTime(row.CategoryCreatedAt),
			UpdatedAt:   derefTime(row.CategoryUpdatedAt),
		}
	}
	if task.AssigneeID != nil && row.AssigneeName != nil {
		task.Assignee = &entities.User{
			ID:        *task.AssigneeID,
			Name:      *row.AssigneeName,
			Email:     derefString(row.AssigneeEmail),
			Avatar:    row.AssigneeAvatar,
			CreatedAt: derefTime(row.AssigneeCreatedAt),
			UpdatedAt: derefTime(row.AssigneeUpdatedAt),
		}
	}

	return &task
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, image, is_vital, due_date, completed_at,
			status_id, priority_id, category_id, owner_id, assignee_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Image, task.IsVital, task.DueDate, task.CompletedAt,
		task.StatusID, task.PriorityID, task.CategoryID, task.OwnerID, task.AssigneeID,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return wrapErr("create task", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	query := taskJoinedSelect + ` WHERE t.id = $1`

	var row taskRow
	err := sqlx.GetContext(ctx, r.db, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound(id)
		}
		return nil, wrapErr("get task by id", err)
	}

	return row.toTask(), nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, image = $4, is_vital = $5, due_date = $6,
			completed_at = $7, status_id = $8, priority_id = $9, category_id = $10,
			assignee_id = $11, updated_at = $12
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Image, task.IsVital, task.DueDate,
		task.CompletedAt, task.StatusID, task.PriorityID, task.CategoryID,
		task.AssigneeID, task.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update task", err)
	}

	return requireAffected("update task", result, entities.ErrTaskNotFound(task.ID))
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete task", err)
	}

	return requireAffected("delete task", result, entities.ErrTaskNotFound(id))
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	where, args := buildTaskWhere(filter)
	query := taskJoinedSelect + where + ` ORDER BY t.created_at DESC, t.id DESC`

	var rows []taskRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, wrapErr("list tasks", err)
	}

	tasks := make([]*entities.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rows[i].toTask())
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) Count(ctx context.Context, filter ports.TaskFilter) (int64, error) {
	where, args := buildTaskWhere(filter)
	query := `
	SELECT COUNT(*)
	FROM tasks t
	JOIN task_statuses s ON s.id = t.status_id
	JOIN task_priorities p ON p.id = t.priority_id
	LEFT JOIN categories c ON c.id = t.category_id` + where

	var n int64
	if err := sqlx.GetContext(ctx, r.db, &n, query, args...); err != nil {
		return 0, wrapErr("count tasks", err)
	}

	return n, nil
}

// Counts computes every statistics counter in a single pass
func (r *TaskRepositoryImpl) Counts(ctx context.Context) (entities.TaskCounts, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE s.name = $1) AS completed,
			COUNT(*) FILTER (WHERE s.name = $2) AS in_progress,
			COUNT(*) FILTER (WHERE s.name = $3) AS not_started,
			COUNT(*) FILTER (WHERE t.is_vital) AS vital
		FROM tasks t
		JOIN task_statuses s ON s.id = t.status_id`

	var counts entities.TaskCounts
	err := sqlx.GetContext(ctx, r.db, &counts, query,
		entities.StatusNameCompleted, entities.StatusNameInProgress, entities.StatusNameNotStarted,
	)
	if err != nil {
		return entities.TaskCounts{}, wrapErr("count task statistics", err)
	}

	return counts, nil
}

// buildTaskWhere renders filter as a WHERE clause over the t/s/p/c aliases
func buildTaskWhere(filter ports.TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	add := func(expr string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(expr, argIndex))
		args = append(args, value)
		argIndex++
	}

	if filter.StatusName != nil {
		add("s.name = $%d", *filter.StatusName)
	}
	if filter.PriorityName != nil {
		add("p.name = $%d", *filter.PriorityName)
	}
	if filter.CategoryName != nil {
		add("c.name = $%d", *filter.CategoryName)
	}
	if filter.OwnerID != nil {
		add("t.owner_id = $%d", *filter.OwnerID)
	}
	if filter.IsVital != nil {
		add("t.is_vital = $%d", *filter.IsVital)
	}
	if filter.StatusID != nil {
		add("t.status_id = $%d", *filter.StatusID)
	}
	if filter.PriorityID != nil {
		add("t.priority_id = $%d", *filter.PriorityID)
	}
	if filter.CategoryID != nil {
		add("t.category_id = $%d", *filter.CategoryID)
	}
	if filter.AssigneeID != nil {
		add("t.assignee_id = $%d", *filter.AssigneeID)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
