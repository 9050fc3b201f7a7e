package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskboard/core/cmd/api/commands"
)

// @title Taskboard API
// @version 1.0
// @description Task management backend: tasks, users, categories, statuses and priorities

// @host localhost:3000
// @BasePath /api

func main() {
	rootCmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "Taskboard API Server",
		Long:          `Taskboard is a task management backend serving tasks, users, categories and configurable statuses and priorities over REST.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
