// Package repository implements the ports repositories over PostgreSQL
// with sqlx. Every repository accepts sqlx.ExtContext so the same code runs
// against a pool or inside a transaction.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// Postgres SQLSTATE codes for constraint violations
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// NewRepositories builds every repository over db. health may be nil when
// db is a transaction.
func NewRepositories(db sqlx.ExtContext, health ports.HealthChecker) ports.Repositories {
	return ports.Repositories{
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Statuses:   NewReferenceRepository(db, entities.ReferenceStatus),
		Priorities: NewReferenceRepository(db, entities.ReferencePriority),
		Tasks:      NewTaskRepository(db),
		Health:     health,
	}
}

// wrapErr annotates a store error with op and classifies constraint
// violations so callers can match them with errors.Is
func wrapErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, entities.ErrForeignKeyViolation, pqErr.Constraint)
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, entities.ErrUniqueViolation, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireAffected turns a zero-row write into notFound
func requireAffected(op string, result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected: %w", op, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
