package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// CategoryRepositoryImpl implements the CategoryRepository interface
type CategoryRepositoryImpl struct {
	db sqlx.ExtContext
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db sqlx.ExtContext) ports.CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

// categoryRow adds the joined task count to a category
type categoryRow struct {
	entities.Category
	TaskCount int64 `db:"task_count"`
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *entities.Category) error {
	query := `
		INSERT INTO categories (id, name, description, color, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.Name, category.Description, category.Color, category.Icon,
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return wrapErr("create category", err)
	}

	return nil
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id string) (*entities.Category, error) {
	query := `
		SELECT id, name, description, color, icon, created_at, updated_at
		FROM categories
		WHERE id = $1`

	var category entities.Category
	err := sqlx.GetContext(ctx, r.db, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrCategoryNotFound(id)
		}
		return nil, wrapErr("get category by id", err)
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *entities.Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, color = $4, icon = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		category.ID, category.Name, category.Description, category.Color, category.Icon,
		category.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update category", err)
	}

	return requireAffected("update category", result, entities.ErrCategoryNotFound(category.ID))
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete category", err)
	}

	return requireAffected("delete category", result, entities.ErrCategoryNotFound(id))
}

func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]*entities.Category, error) {
	query := `
		SELECT c.id, c.name, c.description, c.color, c.icon, c.created_at, c.updated_at,
			COUNT(t.id) AS task_count
		FROM categories c
		LEFT JOIN tasks t ON t.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC, c.id ASC`

	var rows []categoryRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, wrapErr("list categories", err)
	}

	categories := make([]*entities.Category, 0, len(rows))
	for i := range rows {
		c := rows[i].Category
		c.Count = &entities.TaskCount{Tasks: rows[i].TaskCount}
		categories = append(categories, &c)
	}

	return categories, nil
}
