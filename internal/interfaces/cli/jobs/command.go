// Package jobs runs the scheduled membership jobs once from the command
// line, for backfills and manual operation.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nexus/internal/infrastructure/config"
	"nexus/internal/infrastructure/database"
	httpRouter "nexus/internal/interfaces/http"
	"nexus/internal/shared/biztime"
	"nexus/internal/shared/logger"
)

var env string

const jobTimeout = 30 * time.Minute

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run scheduled jobs once",
		Long:  `Run the reconsumption cut or the weekly volume settlement a single time and exit.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(newCutCommand(), newWeeklySettlementCommand())

	return cmd
}

func newCutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cut",
		Short: "Run the daily reconsumption cut",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, cleanup, err := initContainer()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			result, err := container.CutUC.Execute(ctx)
			if err != nil {
				return fmt.Errorf("reconsumption cut failed: %w", err)
			}

			logger.Info("reconsumption cut completed",
				"processed", result.TotalProcessed,
				"renewed", result.Renewed,
				"free_renewals", result.FreeRenewals,
				"expired", result.Expired,
				"skipped", result.Skipped,
				"failed", result.ErrorCount)
			return nil
		},
	}
}

func newWeeklySettlementCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "weekly-settlement",
		Short: "Run the weekly volume settlement",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, cleanup, err := initContainer()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			if err := container.WeeklyUC.Execute(ctx); err != nil {
				return fmt.Errorf("weekly settlement failed: %w", err)
			}

			logger.Info("weekly settlement completed")
			return nil
		},
	}
}

func initContainer() (*httpRouter.Container, func(), error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		OutputPath: cfg.Logger.OutputPath,
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Schedule.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	container, err := httpRouter.BuildContainer(cfg, database.Get(), logger.NewLogger())
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to build container: %w", err)
	}

	cleanup := func() {
		container.Close()
		database.Close()
	}
	return container, cleanup, nil
}
