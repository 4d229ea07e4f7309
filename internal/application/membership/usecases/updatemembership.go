package usecases

import (
	"context"
	"fmt"
	"time"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

type UpdateMembershipCommand struct {
	MembershipID uint
	// Status, when non-empty, must be a valid transition from the current
	// status.
	Status      string
	EndDate     *time.Time
	AutoRenewal *bool
	Notes       string
}

// UpdateMembershipUseCase applies administrative corrections to a
// membership: status overrides, end-date adjustments, and the auto-renewal
// flag. Every change is recorded in the history.
type UpdateMembershipUseCase struct {
	membershipRepo membership.MembershipRepository
	historyRepo    membership.HistoryRepository
	tx             Transactor
	logger         logger.Interface
}

func NewUpdateMembershipUseCase(
	membershipRepo membership.MembershipRepository,
	historyRepo membership.HistoryRepository,
	tx Transactor,
	logger logger.Interface,
) *UpdateMembershipUseCase {
	return &UpdateMembershipUseCase{
		membershipRepo: membershipRepo,
		historyRepo:    historyRepo,
		tx:             tx,
		logger:         logger,
	}
}

func (uc *UpdateMembershipUseCase) Execute(ctx context.Context, cmd UpdateMembershipCommand) (*membership.Membership, error) {
	m, err := uc.membershipRepo.GetByID(ctx, cmd.MembershipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if m == nil {
		return nil, errors.NewNotFoundError("membership not found")
	}

	changes := map[string]interface{}{}

	if cmd.Status != "" {
		newStatus := vo.MembershipStatus(cmd.Status)
		if !vo.ValidStatuses[newStatus] {
			return nil, errors.NewValidationError("invalid membership status", cmd.Status)
		}
		previous := m.Status()
		if err := m.ChangeStatus(newStatus); err != nil {
			return nil, errors.NewFailedPreconditionError("status change not allowed", err.Error())
		}
		changes["previous_status"] = previous.String()
		changes["new_status"] = newStatus.String()
	}

	if cmd.EndDate != nil {
		changes["previous_end_date"] = m.EndDate().Format("2006-01-02")
		if err := m.UpdateEndDate(*cmd.EndDate); err != nil {
			return nil, errors.NewValidationError("invalid end date", err.Error())
		}
		changes["new_end_date"] = cmd.EndDate.Format("2006-01-02")
	}

	if cmd.AutoRenewal != nil {
		m.SetAutoRenewal(*cmd.AutoRenewal)
		changes["auto_renewal"] = *cmd.AutoRenewal
	}

	if len(changes) == 0 {
		return nil, errors.NewValidationError("no changes requested")
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.membershipRepo.Update(txCtx, m); err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}
		notes := cmd.Notes
		if notes == "" {
			notes = "Membership updated by administrator"
		}
		h, err := membership.NewHistory(m.ID(), vo.ActionStatusChanged, notes)
		if err != nil {
			return fmt.Errorf("failed to build history entry: %w", err)
		}
		h.SetMetadata(changes)
		if err := uc.historyRepo.Create(txCtx, h); err != nil {
			return fmt.Errorf("failed to create history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("membership updated", "membership_id", m.ID(), "changes", changes)
	return m, nil
}
