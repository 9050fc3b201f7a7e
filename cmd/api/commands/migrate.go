package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/database"
)

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the PostgreSQL schema (up, down, version) from the migrations embedded in the binary",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				changed, err := m.Up()
				if err != nil {
					return err
				}
				printChange(cmd, "up", changed)
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				changed, err := m.Down()
				if err != nil {
					return err
				}
				printChange(cmd, "down", changed)
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
				return nil
			})
		},
	})

	return migrateCmd
}

func withMigrator(fn func(m *database.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations need the %s driver, got %s", config.DriverPostgres, cfg.Database.Driver)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	return fn(m)
}

func printChange(cmd *cobra.Command, direction string, changed bool) {
	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run")
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
}
