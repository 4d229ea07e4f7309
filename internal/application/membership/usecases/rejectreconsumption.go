package usecases

import (
	"context"
	"fmt"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

type RejectReconsumptionCommand struct {
	ReconsumptionID uint
	Reason          string
}

// RejectReconsumptionUseCase cancels a pending renewal cycle. The
// membership's validity window is left untouched.
type RejectReconsumptionUseCase struct {
	reconsumptionRepo membership.ReconsumptionRepository
	logger            logger.Interface
}

func NewRejectReconsumptionUseCase(
	reconsumptionRepo membership.ReconsumptionRepository,
	logger logger.Interface,
) *RejectReconsumptionUseCase {
	return &RejectReconsumptionUseCase{
		reconsumptionRepo: reconsumptionRepo,
		logger:            logger,
	}
}

func (uc *RejectReconsumptionUseCase) Execute(ctx context.Context, cmd RejectReconsumptionCommand) error {
	r, err := uc.reconsumptionRepo.GetByID(ctx, cmd.ReconsumptionID)
	if err != nil {
		return fmt.Errorf("failed to get reconsumption: %w", err)
	}
	if r == nil {
		return errors.NewNotFoundError("reconsumption not found")
	}
	if r.Status() != vo.ReconsumptionStatusPending {
		return errors.NewFailedPreconditionError("reconsumption is not pending approval",
			fmt.Sprintf("current status: %s", r.Status()))
	}

	if err := r.Cancel(cmd.Reason); err != nil {
		return errors.NewFailedPreconditionError("reconsumption cannot be cancelled", err.Error())
	}
	if err := uc.reconsumptionRepo.Update(ctx, r); err != nil {
		return fmt.Errorf("failed to update reconsumption: %w", err)
	}

	uc.logger.Infow("reconsumption rejected",
		"reconsumption_id", r.ID(), "membership_id", r.MembershipID(), "reason", cmd.Reason)
	return nil
}
