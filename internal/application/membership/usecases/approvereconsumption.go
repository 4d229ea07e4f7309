package usecases

import (
	"context"
	"fmt"
	"time"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/biztime"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

type ApproveReconsumptionCommand struct {
	ReconsumptionID  uint
	PaymentReference string
}

type ApproveReconsumptionResult struct {
	Reconsumption *membership.Reconsumption
	NewStartDate  time.Time
	NewEndDate    time.Time
}

// ApproveReconsumptionUseCase confirms a deferred renewal cycle: the
// reconsumption flips to ACTIVE, the membership gets a freshly calculated
// validity window and becomes ACTIVE, and the audit row is appended. All
// three writes commit together or not at all.
type ApproveReconsumptionUseCase struct {
	reconsumptionRepo membership.ReconsumptionRepository
	membershipRepo    membership.MembershipRepository
	historyRepo       membership.HistoryRepository
	tx                Transactor
	graceDays         int
	logger            logger.Interface
	today             func() time.Time
}

func NewApproveReconsumptionUseCase(
	reconsumptionRepo membership.ReconsumptionRepository,
	membershipRepo membership.MembershipRepository,
	historyRepo membership.HistoryRepository,
	tx Transactor,
	graceDays int,
	logger logger.Interface,
) *ApproveReconsumptionUseCase {
	return &ApproveReconsumptionUseCase{
		reconsumptionRepo: reconsumptionRepo,
		membershipRepo:    membershipRepo,
		historyRepo:       historyRepo,
		tx:                tx,
		graceDays:         graceDays,
		logger:            logger,
		today:             biztime.Today,
	}
}

func (uc *ApproveReconsumptionUseCase) Execute(ctx context.Context, cmd ApproveReconsumptionCommand) (*ApproveReconsumptionResult, error) {
	r, err := uc.reconsumptionRepo.GetByID(ctx, cmd.ReconsumptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reconsumption: %w", err)
	}
	if r == nil {
		return nil, errors.NewNotFoundError("reconsumption not found")
	}
	if r.Status() != vo.ReconsumptionStatusPending {
		return nil, errors.NewFailedPreconditionError("reconsumption is not pending approval",
			fmt.Sprintf("current status: %s", r.Status()))
	}

	m, err := uc.membershipRepo.GetByID(ctx, r.MembershipID())
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if m == nil {
		return nil, errors.NewNotFoundError("membership not found")
	}

	previousStart, previousEnd := m.StartDate(), m.EndDate()
	window := membership.CalculateRenewalDates(m.Status(), m.EndDate(), uc.today(), uc.graceDays)

	if err := r.Activate(cmd.PaymentReference); err != nil {
		return nil, errors.NewFailedPreconditionError("reconsumption cannot be activated", err.Error())
	}
	if err := m.ApplyRenewalWindow(window.StartDate, window.EndDate); err != nil {
		return nil, errors.NewFailedPreconditionError("membership cannot be renewed", err.Error())
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.reconsumptionRepo.Update(txCtx, r); err != nil {
			return fmt.Errorf("failed to update reconsumption: %w", err)
		}
		if err := uc.membershipRepo.Update(txCtx, m); err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}

		h, err := membership.NewHistory(m.ID(), vo.ActionReconsumptionAdded,
			fmt.Sprintf("Reconsumption approved for amount %s", r.Amount()))
		if err != nil {
			return fmt.Errorf("failed to build history entry: %w", err)
		}
		h.SetMetadata(map[string]interface{}{
			"reconsumption_id":    r.ID(),
			"payment_reference":   cmd.PaymentReference,
			"amount":              r.Amount().String(),
			"previous_start_date": previousStart.Format("2006-01-02"),
			"previous_end_date":   previousEnd.Format("2006-01-02"),
			"new_start_date":      window.StartDate.Format("2006-01-02"),
			"new_end_date":        window.EndDate.Format("2006-01-02"),
		})
		if err := uc.historyRepo.Create(txCtx, h); err != nil {
			return fmt.Errorf("failed to create history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("reconsumption approval failed",
			"reconsumption_id", r.ID(), "membership_id", m.ID(), "user_id", m.UserID(),
			"saga_step", "approve_reconsumption.commit", "error", err)
		return nil, err
	}

	uc.logger.Infow("reconsumption approved",
		"reconsumption_id", r.ID(), "membership_id", m.ID(),
		"new_start_date", window.StartDate.Format("2006-01-02"),
		"new_end_date", window.EndDate.Format("2006-01-02"))

	return &ApproveReconsumptionResult{
		Reconsumption: r,
		NewStartDate:  window.StartDate,
		NewEndDate:    window.EndDate,
	}, nil
}
