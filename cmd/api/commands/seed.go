package commands

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/taskboard/core/internal/adapters/repository"
	"github.com/taskboard/core/internal/application/seed"
	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/database"
)

// truncateAll clears every table in one statement
const truncateAll = `TRUNCATE tasks, users, categories, task_statuses, task_priorities CASCADE`

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the demo data set",
		Long:  "Truncate every table and load the demo statuses, priorities, categories, users and tasks in one transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("seed needs the %s driver; the memory driver seeds itself at serve", config.DriverPostgres)
			}

			db, err := database.New(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			sum, err := seedDatabase(cmd.Context(), db)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d statuses, %d priorities, %d categories, %d users, %d tasks\n",
				sum.Statuses, sum.Priorities, sum.Categories, sum.Users, sum.Tasks)
			return nil
		},
	}
}

func seedDatabase(ctx context.Context, db *database.DB) (seed.Summary, error) {
	var sum seed.Summary
	err := db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, truncateAll); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}

		var err error
		sum, err = seed.Run(ctx, repository.NewRepositories(tx, nil))
		return err
	})
	return sum, err
}
