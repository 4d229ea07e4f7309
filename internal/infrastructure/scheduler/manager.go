// Package scheduler runs the recurring membership jobs on cron
// schedules evaluated in the business timezone.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"nexus/internal/application/membership/usecases"
	"nexus/internal/shared/biztime"
	"nexus/internal/shared/config"
	"nexus/internal/shared/logger"
)

const jobTimeout = 30 * time.Minute

// Manager owns the cron runner and the scheduled membership jobs.
type Manager struct {
	cron     *cron.Cron
	cfg      config.ScheduleConfig
	cutUC    *usecases.RunReconsumptionCutUseCase
	weeklyUC *usecases.RunWeeklySettlementUseCase
	logger   logger.Interface
}

// NewManager creates the scheduler with cron expressions evaluated in
// the business timezone.
func NewManager(
	cfg config.ScheduleConfig,
	cutUC *usecases.RunReconsumptionCutUseCase,
	weeklyUC *usecases.RunWeeklySettlementUseCase,
	log logger.Interface,
) *Manager {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Get().Handler(), slog.LevelInfo))
	c := cron.New(
		cron.WithLocation(biztime.Location()),
		cron.WithChain(cron.Recover(cronLogger)),
	)

	return &Manager{
		cron:     c,
		cfg:      cfg,
		cutUC:    cutUC,
		weeklyUC: weeklyUC,
		logger:   log.Named("scheduler"),
	}
}

// Start registers the jobs and starts the cron runner.
func (m *Manager) Start() error {
	if _, err := m.cron.AddFunc(m.cfg.CutCron, m.runCut); err != nil {
		return err
	}
	m.logger.Infow("scheduled reconsumption cut job", "schedule", m.cfg.CutCron)

	if _, err := m.cron.AddFunc(m.cfg.WeeklyCron, m.runWeeklySettlement); err != nil {
		return err
	}
	m.logger.Infow("scheduled weekly settlement job", "schedule", m.cfg.WeeklyCron)

	// Retry slot for weeks where the primary settlement run failed.
	if m.cfg.WeeklyCronFallback != "" {
		if _, err := m.cron.AddFunc(m.cfg.WeeklyCronFallback, m.runWeeklySettlement); err != nil {
			return err
		}
		m.logger.Infow("scheduled weekly settlement fallback", "schedule", m.cfg.WeeklyCronFallback)
	}

	m.cron.Start()
	m.logger.Infow("scheduler started", "timezone", biztime.Location().String())
	return nil
}

// Stop stops the cron runner and waits for running jobs to finish.
func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Infow("scheduler stopped")
}

func (m *Manager) runCut() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	result, err := m.cutUC.Execute(ctx)
	if err != nil {
		m.logger.Errorw("reconsumption cut run failed",
			"error", err,
			"duration", time.Since(start),
		)
		return
	}

	m.logger.Infow("reconsumption cut run completed",
		"processed", result.TotalProcessed,
		"renewed", result.Renewed,
		"free_renewals", result.FreeRenewals,
		"expired", result.Expired,
		"skipped", result.Skipped,
		"failed", result.ErrorCount,
		"duration", time.Since(start),
	)
}

func (m *Manager) runWeeklySettlement() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := m.weeklyUC.Execute(ctx); err != nil {
		m.logger.Errorw("weekly settlement run failed",
			"error", err,
			"duration", time.Since(start),
		)
		return
	}

	m.logger.Infow("weekly settlement run completed", "duration", time.Since(start))
}
