package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskboard/core/internal/adapters/repository"
	"github.com/taskboard/core/internal/adapters/repository/memory"
	"github.com/taskboard/core/internal/application/seed"
	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/database"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/infrastructure/server"
	"github.com/taskboard/core/internal/ports"
)

// Set with -ldflags "-X github.com/taskboard/core/cmd/api/commands.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var runMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Taskboard API server",
		Long:  "Start the Taskboard API server. The memory driver starts with the demo data loaded.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), runMigrations)
		},
	}

	cmd.Flags().BoolVar(&runMigrations, "migrate", false, "Apply pending migrations before serving (postgres only)")
	return cmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Taskboard version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Taskboard %s (commit %s)\n", Version, GitCommit)
		},
	}
}

func runServer(ctx context.Context, runMigrations bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	repos, db, err := openStore(ctx, cfg, appLogger, runMigrations)
	if err != nil {
		appLogger.WithError(err).Errorw("Failed to open store", "driver", cfg.Database.Driver)
		return err
	}
	if db != nil {
		defer db.Close()
	}

	srv := server.New(cfg, repos, db, appLogger)

	appLogger.Infow("Starting Taskboard API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"driver", cfg.Database.Driver,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.WithError(err).Error("Server failed")
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorw("Server shutdown failed", "error", err)
		return err
	}

	appLogger.Info("Server stopped")
	return nil
}

// openStore builds the repositories for the configured driver. The returned
// DB is nil for the memory driver.
func openStore(ctx context.Context, cfg *config.Config, appLogger *logger.Logger, runMigrations bool) (ports.Repositories, *database.DB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		repos := memory.New().Repositories()
		sum, err := seed.Run(ctx, repos)
		if err != nil {
			return ports.Repositories{}, nil, fmt.Errorf("failed to seed memory store: %w", err)
		}
		appLogger.Infow("Memory store seeded", "tasks", sum.Tasks, "users", sum.Users)
		return repos, nil, nil
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return ports.Repositories{}, nil, err
	}

	if runMigrations {
		if err := migrateUp(db, appLogger); err != nil {
			db.Close()
			return ports.Repositories{}, nil, err
		}
	}

	return repository.NewRepositories(db.DB, db), db, nil
}

func migrateUp(db *database.DB, appLogger *logger.Logger) error {
	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}

	changed, err := m.Up()
	if err != nil {
		return err
	}

	version, _, err := m.Version()
	if err != nil {
		return err
	}
	appLogger.Infow("Migrations applied", "changed", changed, "version", version)
	return nil
}
