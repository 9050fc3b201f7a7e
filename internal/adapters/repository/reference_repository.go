package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// ReferenceRepositoryImpl implements ReferenceRepository over either the
// task_statuses or the task_priorities table
type ReferenceRepositoryImpl struct {
	db     sqlx.ExtContext
	kind   entities.ReferenceKind
	table  string
	column string
}

// NewReferenceRepository creates a repository for kind
func NewReferenceRepository(db sqlx.ExtContext, kind entities.ReferenceKind) ports.ReferenceRepository {
	r := &ReferenceRepositoryImpl{db: db, kind: kind, table: "task_statuses", column: "status_id"}
	if kind == entities.ReferencePriority {
		r.table, r.column = "task_priorities", "priority_id"
	}
	return r
}

type referenceRow struct {
	entities.Reference
	TaskCount int64 `db:"task_count"`
}

func (r *ReferenceRepositoryImpl) Kind() entities.ReferenceKind {
	return r.kind
}

func (r *ReferenceRepositoryImpl) Create(ctx context.Context, ref *entities.Reference) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, color, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		ref.ID, ref.Name, ref.Color, ref.Order, ref.CreatedAt, ref.UpdatedAt,
	)
	if err != nil {
		return wrapErr("create "+string(r.kind), err)
	}

	return nil
}

func (r *ReferenceRepositoryImpl) GetByID(ctx context.Context, id string) (*entities.Reference, error) {
	query := fmt.Sprintf(`
		SELECT id, name, color, sort_order, created_at, updated_at
		FROM %s
		WHERE id = $1`, r.table)

	var ref entities.Reference
	err := sqlx.GetContext(ctx, r.db, &ref, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrReferenceNotFound(r.kind, id)
		}
		return nil, wrapErr("get "+string(r.kind)+" by id", err)
	}

	return &ref, nil
}

func (r *ReferenceRepositoryImpl) Exists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, r.table)

	var exists bool
	if err := sqlx.GetContext(ctx, r.db, &exists, query, id); err != nil {
		return false, wrapErr("check "+string(r.kind), err)
	}

	return exists, nil
}

func (r *ReferenceRepositoryImpl) Update(ctx context.Context, ref *entities.Reference) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, color = $3, sort_order = $4, updated_at = $5
		WHERE id = $1`, r.table)

	result, err := r.db.ExecContext(ctx, query,
		ref.ID, ref.Name, ref.Color, ref.Order, ref.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update "+string(r.kind), err)
	}

	return requireAffected("update "+string(r.kind), result, entities.ErrReferenceNotFound(r.kind, ref.ID))
}

func (r *ReferenceRepositoryImpl) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapErr("delete "+string(r.kind), err)
	}

	return requireAffected("delete "+string(r.kind), result, entities.ErrReferenceNotFound(r.kind, id))
}

func (r *ReferenceRepositoryImpl) List(ctx context.Context) ([]*entities.Reference, error) {
	query := fmt.Sprintf(`
		SELECT x.id, x.name, x.color, x.sort_order, x.created_at, x.updated_at,
			COUNT(t.id) AS task_count
		FROM %s x
		LEFT JOIN tasks t ON t.%s = x.id
		GROUP BY x.id
		ORDER BY x.sort_order ASC, x.name ASC`, r.table, r.column)

	var rows []referenceRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, wrapErr("list "+r.kind.Plural(), err)
	}

	refs := make([]*entities.Reference, 0, len(rows))
	for i := range rows {
		ref := rows[i].Reference
		ref.Count = &entities.TaskCount{Tasks: rows[i].TaskCount}
		refs = append(refs, &ref)
	}

	return refs, nil
}
