package usecases

import (
	"context"
	"fmt"

	"nexus/internal/shared/logger"
)

// RunWeeklySettlementUseCase triggers the points service's weekly volume
// settlement. The computation lives on the points side; this job only owns
// the schedule.
type RunWeeklySettlementUseCase struct {
	points PointsClient
	logger logger.Interface
}

func NewRunWeeklySettlementUseCase(points PointsClient, logger logger.Interface) *RunWeeklySettlementUseCase {
	return &RunWeeklySettlementUseCase{points: points, logger: logger}
}

func (uc *RunWeeklySettlementUseCase) Execute(ctx context.Context) error {
	uc.logger.Infow("weekly volume settlement started")

	if err := uc.points.ProcessWeeklyVolumes(ctx); err != nil {
		uc.logger.Errorw("weekly volume settlement failed", "error", err)
		return fmt.Errorf("failed to process weekly volumes: %w", err)
	}

	uc.logger.Infow("weekly volume settlement finished")
	return nil
}
