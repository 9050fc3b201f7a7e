package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationSource returns the embedded schema migrations
func MigrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return src, nil
}

// Migrator applies the embedded migrations to db
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator creates a migrator over an open connection
func NewMigrator(db *DB) (*Migrator, error) {
	src, err := MigrationSource()
	if err != nil {
		return nil, err
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return &Migrator{m: m}, nil
}

// Up applies every pending migration. It reports false when the schema was
// already current.
func (m *Migrator) Up() (bool, error) {
	return applied(m.m.Up())
}

// Down reverts every applied migration
func (m *Migrator) Down() (bool, error) {
	return applied(m.m.Down())
}

// Version reports the current schema version and whether it is dirty
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

func applied(err error) (bool, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("migration failed: %w", err)
	}
	return true, nil
}
