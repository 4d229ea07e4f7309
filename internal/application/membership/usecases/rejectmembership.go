package usecases

import (
	"context"
	"fmt"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

type RejectMembershipCommand struct {
	MembershipID uint
	Reason       string
}

// RejectMembershipUseCase rejects a pending new subscription: the
// membership is marked DELETED and a cancellation row is appended. Upgrades
// are reverted through RejectPlanUpgradeUseCase instead.
type RejectMembershipUseCase struct {
	membershipRepo membership.MembershipRepository
	historyRepo    membership.HistoryRepository
	tx             Transactor
	notifier       Notifier
	logger         logger.Interface
}

func NewRejectMembershipUseCase(
	membershipRepo membership.MembershipRepository,
	historyRepo membership.HistoryRepository,
	tx Transactor,
	notifier Notifier,
	logger logger.Interface,
) *RejectMembershipUseCase {
	return &RejectMembershipUseCase{
		membershipRepo: membershipRepo,
		historyRepo:    historyRepo,
		tx:             tx,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *RejectMembershipUseCase) Execute(ctx context.Context, cmd RejectMembershipCommand) error {
	m, err := uc.membershipRepo.GetByID(ctx, cmd.MembershipID)
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if m == nil {
		return errors.NewNotFoundError("membership not found")
	}
	if m.Status() != vo.StatusPending {
		return errors.NewFailedPreconditionError("membership is not pending approval",
			fmt.Sprintf("current status: %s", m.Status()))
	}

	if err := m.Reject(); err != nil {
		return errors.NewFailedPreconditionError("membership cannot be rejected", err.Error())
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.membershipRepo.Update(txCtx, m); err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}

		notes := "Subscription rejected"
		if cmd.Reason != "" {
			notes = fmt.Sprintf("Subscription rejected: %s", cmd.Reason)
		}
		h, err := membership.NewHistory(m.ID(), vo.ActionCancelled, notes)
		if err != nil {
			return fmt.Errorf("failed to build history entry: %w", err)
		}
		if err := uc.historyRepo.Create(txCtx, h); err != nil {
			return fmt.Errorf("failed to create history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("membership rejection failed",
			"membership_id", m.ID(), "user_id", m.UserID(), "saga_step", "reject.commit", "error", err)
		return err
	}

	if uc.notifier != nil {
		if err := uc.notifier.MembershipRejected(ctx, m.UserEmail(), m.UserName(), cmd.Reason); err != nil {
			uc.logger.Warnw("rejection notification failed",
				"membership_id", m.ID(), "email", m.UserEmail(), "error", err)
		}
	}

	uc.logger.Infow("membership rejected",
		"membership_id", m.ID(), "user_id", m.UserID(), "reason", cmd.Reason)
	return nil
}
