package usecases

import (
	"context"
	"fmt"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

type RejectPlanUpgradeCommand struct {
	MembershipID uint
	Reason       string
}

// RejectPlanUpgradeUseCase rejects a pending plan upgrade by restoring the
// recorded prior plan and reactivating the membership. If the prior plan no
// longer exists the rejection fails with NotFound; no fallback plan is
// substituted.
type RejectPlanUpgradeUseCase struct {
	membershipRepo membership.MembershipRepository
	planRepo       membership.PlanRepository
	historyRepo    membership.HistoryRepository
	tx             Transactor
	logger         logger.Interface
}

func NewRejectPlanUpgradeUseCase(
	membershipRepo membership.MembershipRepository,
	planRepo membership.PlanRepository,
	historyRepo membership.HistoryRepository,
	tx Transactor,
	logger logger.Interface,
) *RejectPlanUpgradeUseCase {
	return &RejectPlanUpgradeUseCase{
		membershipRepo: membershipRepo,
		planRepo:       planRepo,
		historyRepo:    historyRepo,
		tx:             tx,
		logger:         logger,
	}
}

func (uc *RejectPlanUpgradeUseCase) Execute(ctx context.Context, cmd RejectPlanUpgradeCommand) (*membership.Membership, error) {
	m, err := uc.membershipRepo.GetByID(ctx, cmd.MembershipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if m == nil {
		return nil, errors.NewNotFoundError("membership not found")
	}
	if m.Status() != vo.StatusPending {
		return nil, errors.NewFailedPreconditionError("membership is not pending approval",
			fmt.Sprintf("current status: %s", m.Status()))
	}
	if m.FromPlanID() == nil {
		return nil, errors.NewValidationError("membership is not an upgrade",
			"no prior plan recorded")
	}

	rejectedPlanID := m.PlanID()
	priorPlanID := *m.FromPlanID()

	priorPlan, err := uc.planRepo.GetByID(ctx, priorPlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get prior plan: %w", err)
	}
	if priorPlan == nil {
		return nil, errors.NewNotFoundError("prior plan no longer exists",
			fmt.Sprintf("plan %d", priorPlanID))
	}

	if err := m.RevertUpgrade(); err != nil {
		return nil, errors.NewFailedPreconditionError("upgrade cannot be reverted", err.Error())
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.membershipRepo.Update(txCtx, m); err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}

		notes := fmt.Sprintf("Upgrade rejected, reverted from plan %d to plan %d", rejectedPlanID, priorPlanID)
		if cmd.Reason != "" {
			notes = fmt.Sprintf("%s: %s", notes, cmd.Reason)
		}
		h, err := membership.NewHistory(m.ID(), vo.ActionCancelled, notes)
		if err != nil {
			return fmt.Errorf("failed to build history entry: %w", err)
		}
		h.SetMetadata(map[string]interface{}{
			"rejected_plan_id": rejectedPlanID,
			"restored_plan_id": priorPlanID,
		})
		if err := uc.historyRepo.Create(txCtx, h); err != nil {
			return fmt.Errorf("failed to create history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("upgrade rejection failed",
			"membership_id", m.ID(), "user_id", m.UserID(), "saga_step", "reject_upgrade.commit", "error", err)
		return nil, err
	}

	uc.logger.Infow("plan upgrade rejected",
		"membership_id", m.ID(), "user_id", m.UserID(),
		"rejected_plan_id", rejectedPlanID, "restored_plan_id", priorPlanID)
	return m, nil
}
