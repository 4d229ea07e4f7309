package usecases

import (
	"context"
	"fmt"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

type ApproveMembershipCommand struct {
	MembershipID     uint
	PaymentReference string
	Notes            string
}

// ApproveMembershipUseCase flips a pending membership (new subscription or
// plan upgrade) to active with its audit row, atomically.
type ApproveMembershipUseCase struct {
	membershipRepo membership.MembershipRepository
	planRepo       membership.PlanRepository
	historyRepo    membership.HistoryRepository
	tx             Transactor
	notifier       Notifier
	logger         logger.Interface
}

func NewApproveMembershipUseCase(
	membershipRepo membership.MembershipRepository,
	planRepo membership.PlanRepository,
	historyRepo membership.HistoryRepository,
	tx Transactor,
	notifier Notifier,
	logger logger.Interface,
) *ApproveMembershipUseCase {
	return &ApproveMembershipUseCase{
		membershipRepo: membershipRepo,
		planRepo:       planRepo,
		historyRepo:    historyRepo,
		tx:             tx,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *ApproveMembershipUseCase) Execute(ctx context.Context, cmd ApproveMembershipCommand) (*membership.Membership, error) {
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

	isUpgrade := m.FromPlanID() != nil

	if err := m.Activate(cmd.PaymentReference); err != nil {
		return nil, errors.NewFailedPreconditionError("membership cannot be activated", err.Error())
	}

	action := vo.ActionPaymentReceived
	notes := "Membership payment confirmed"
	if isUpgrade {
		action = vo.ActionUpgrade
		notes = "Plan upgrade approved"
	}
	if cmd.Notes != "" {
		notes = cmd.Notes
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.membershipRepo.Update(txCtx, m); err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}

		h, err := membership.NewHistory(m.ID(), action, notes)
		if err != nil {
			return fmt.Errorf("failed to build history entry: %w", err)
		}
		h.SetMetadata(map[string]interface{}{
			"payment_reference": cmd.PaymentReference,
			"is_upgrade":        isUpgrade,
		})
		if err := uc.historyRepo.Create(txCtx, h); err != nil {
			return fmt.Errorf("failed to create history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("membership approval failed",
			"membership_id", m.ID(), "user_id", m.UserID(), "saga_step", "approve.commit", "error", err)
		return nil, err
	}

	uc.notifyApproved(ctx, m)

	uc.logger.Infow("membership approved",
		"membership_id", m.ID(), "user_id", m.UserID(), "is_upgrade", isUpgrade)
	return m, nil
}

func (uc *ApproveMembershipUseCase) notifyApproved(ctx context.Context, m *membership.Membership) {
	if uc.notifier == nil {
		return
	}

	planName := ""
	if plan, err := uc.planRepo.GetByID(ctx, m.PlanID()); err == nil && plan != nil {
		planName = plan.Name()
	}

	if err := uc.notifier.MembershipApproved(ctx, m.UserEmail(), m.UserName(), planName); err != nil {
		uc.logger.Warnw("approval notification failed",
			"membership_id", m.ID(), "email", m.UserEmail(), "error", err)
	}
}
