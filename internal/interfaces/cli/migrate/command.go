// Package migrate is the CLI entry point for database migrations.
package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"nexus/internal/infrastructure/config"
	"nexus/internal/infrastructure/database"
	"nexus/internal/infrastructure/migration"
	"nexus/internal/shared/logger"
)

var (
	env   string
	name  string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply, rollback, inspect status, and scaffold new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := initRunner()
			if err != nil {
				return err
			}
			defer database.Close()
			return runner.Up(database.Get())
		},
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := initRunner()
			if err != nil {
				return err
			}
			defer database.Close()
			return runner.Down(database.Get(), steps)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := initRunner()
			if err != nil {
				return err
			}
			defer database.Close()
			return runner.Status(database.Get())
		},
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptsPath, err := filepath.Abs("./migrations")
			if err != nil {
				return fmt.Errorf("failed to resolve migrations path: %w", err)
			}
			return migration.NewRunner(scriptsPath).Create(name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.MarkFlagRequired("name")

	return cmd
}

func initRunner() (*migration.Runner, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		OutputPath: cfg.Logger.OutputPath,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	scriptsPath, err := filepath.Abs("./migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	return migration.NewRunner(scriptsPath), nil
}
