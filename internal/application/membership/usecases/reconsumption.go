package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/biztime"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

type CreateReconsumptionCommand struct {
	UserID       string
	MembershipID uint
	// Amount of the renewal; zero means the membership's minimum
	// reconsumption amount.
	Amount   decimal.Decimal
	Method   vo.PaymentMethod
	Payments []PaymentProof // voucher channel payload
	SourceID string         // gateway channel payload
	// FreeRenewal marks an order-volume-funded renewal: the payment
	// collaborator records it without debiting anything. Set only by the
	// daily cut job.
	FreeRenewal bool
}

type CreateReconsumptionResult struct {
	Reconsumption *membership.Reconsumption
	Receipt       *PaymentReceipt
	TotalAmount   decimal.Decimal
	// Renewed reports whether the membership window was extended
	// synchronously (immediate confirmation mode).
	Renewed bool
}

// reconsumptionStrategy is one payment channel of the renewal saga.
// Immediate strategies confirm synchronously and extend the membership in
// the same call; deferred ones leave the row PENDING for ApprovalService.
type reconsumptionStrategy interface {
	Method() vo.PaymentMethod
	Immediate() bool
	ValidatePayload(cmd CreateReconsumptionCommand, m *membership.Membership) error
	PaymentRequest(cmd CreateReconsumptionCommand, r *membership.Reconsumption, m *membership.Membership, user *UserInfo, amount decimal.Decimal) PaymentRequest
}

// CreateReconsumptionUseCase runs the renewal saga: eligibility guard,
// local reconsumption row, remote payment call, and for immediate channels
// the synchronous recalculation of the membership window. Any local row
// created during a failed call is compensated away and the original error
// re-thrown.
type CreateReconsumptionUseCase struct {
	membershipRepo    membership.MembershipRepository
	reconsumptionRepo membership.ReconsumptionRepository
	historyRepo       membership.HistoryRepository
	planRepo          membership.PlanRepository
	identity          IdentityClient
	payments          PaymentClient
	locker            UserLocker
	strategies        map[vo.PaymentMethod]reconsumptionStrategy
	renewalWindowDays int
	graceDays         int
	logger            logger.Interface
	today             func() time.Time
}

func NewCreateReconsumptionUseCase(
	membershipRepo membership.MembershipRepository,
	reconsumptionRepo membership.ReconsumptionRepository,
	historyRepo membership.HistoryRepository,
	planRepo membership.PlanRepository,
	identity IdentityClient,
	payments PaymentClient,
	locker UserLocker,
	renewalWindowDays int,
	graceDays int,
	logger logger.Interface,
) *CreateReconsumptionUseCase {
	if renewalWindowDays <= 0 {
		renewalWindowDays = membership.DefaultRenewalWindowDays
	}
	if graceDays <= 0 {
		graceDays = membership.DefaultGraceDays
	}

	uc := &CreateReconsumptionUseCase{
		membershipRepo:    membershipRepo,
		reconsumptionRepo: reconsumptionRepo,
		historyRepo:       historyRepo,
		planRepo:          planRepo,
		identity:          identity,
		payments:          payments,
		locker:            locker,
		strategies:        make(map[vo.PaymentMethod]reconsumptionStrategy),
		renewalWindowDays: renewalWindowDays,
		graceDays:         graceDays,
		logger:            logger,
		today:             biztime.Today,
	}

	for _, s := range []reconsumptionStrategy{
		&voucherReconsumptionStrategy{},
		&pointsReconsumptionStrategy{},
		&gatewayReconsumptionStrategy{},
	} {
		uc.strategies[s.Method()] = s
	}

	return uc
}

func (uc *CreateReconsumptionUseCase) Execute(ctx context.Context, cmd CreateReconsumptionCommand) (*CreateReconsumptionResult, error) {
	strategy, ok := uc.strategies[cmd.Method]
	if !ok {
		return nil, errors.NewValidationError("unsupported payment method", cmd.Method.String())
	}

	release, err := uc.locker.Acquire(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire user lock: %w", err)
	}
	defer release()

	m, err := uc.eligibleMembership(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if err := strategy.ValidatePayload(cmd, m); err != nil {
		return nil, err
	}

	user, err := uc.identity.GetDetailedInfo(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	amount := cmd.Amount
	if amount.IsZero() {
		amount = m.MinimumReconsumptionAmount()
	}

	r, err := uc.createRow(ctx, m, amount, strategy.Immediate(), cmd)
	if err != nil {
		return nil, err
	}

	receipt, err := uc.payments.Create(ctx, strategy.PaymentRequest(cmd, r, m, user, amount))
	if err != nil {
		uc.logger.Errorw("reconsumption payment failed, compensating local row",
			"reconsumption_id", r.ID(), "membership_id", m.ID(), "user_id", cmd.UserID,
			"method", cmd.Method.String(), "saga_step", "payment.create", "error", err)
		uc.compensate(ctx, r)
		return nil, err
	}

	r.SetPaymentReference(receipt.PaymentID)
	if err := uc.reconsumptionRepo.Update(ctx, r); err != nil {
		uc.logger.Errorw("failed to record payment reference",
			"reconsumption_id", r.ID(), "payment_id", receipt.PaymentID, "error", err)
	}

	result := &CreateReconsumptionResult{
		Reconsumption: r,
		Receipt:       receipt,
		TotalAmount:   amount,
	}

	if strategy.Immediate() {
		if err := uc.renewMembership(ctx, m, r, amount, cmd.FreeRenewal); err != nil {
			return nil, err
		}
		result.Renewed = true
	}

	uc.logger.Infow("reconsumption processed",
		"reconsumption_id", r.ID(), "membership_id", m.ID(), "user_id", cmd.UserID,
		"method", cmd.Method.String(), "amount", amount.String(), "immediate", strategy.Immediate())

	return result, nil
}

// eligibleMembership applies the renewal guard: the membership must exist
// for the user, must not itself be pending approval, must not already have
// a pending renewal, and an active membership may only renew inside the
// early-renewal window.
func (uc *CreateReconsumptionUseCase) eligibleMembership(ctx context.Context, cmd CreateReconsumptionCommand) (*membership.Membership, error) {
	var (
		m   *membership.Membership
		err error
	)
	if cmd.MembershipID != 0 {
		m, err = uc.membershipRepo.GetByID(ctx, cmd.MembershipID)
	} else {
		m, err = uc.membershipRepo.GetByUserID(ctx, cmd.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if m == nil || (cmd.UserID != "" && m.UserID() != cmd.UserID) {
		return nil, errors.NewNotFoundError("membership not found for user")
	}

	if !m.Status().CanReconsume() {
		return nil, errors.NewFailedPreconditionError("membership cannot be renewed",
			fmt.Sprintf("current status: %s", m.Status()))
	}

	pending, err := uc.reconsumptionRepo.GetPendingByMembershipID(ctx, m.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to check pending reconsumption: %w", err)
	}
	if pending != nil {
		return nil, errors.NewConflictError("a pending reconsumption already exists",
			fmt.Sprintf("reconsumption %d", pending.ID()))
	}

	if m.Status() == vo.StatusActive && !m.WithinRenewalWindow(uc.today(), uc.renewalWindowDays) {
		return nil, errors.NewFailedPreconditionError("too early to renew",
			fmt.Sprintf("renewal opens %d days before %s", uc.renewalWindowDays, m.EndDate().Format("2006-01-02")))
	}

	return m, nil
}

func (uc *CreateReconsumptionUseCase) createRow(ctx context.Context, m *membership.Membership, amount decimal.Decimal, immediate bool, cmd CreateReconsumptionCommand) (*membership.Reconsumption, error) {
	var (
		r   *membership.Reconsumption
		err error
	)
	if immediate {
		r, err = membership.NewActiveReconsumption(m.ID(), amount, uc.today())
	} else {
		r, err = membership.NewReconsumption(m.ID(), amount, uc.today())
	}
	if err != nil {
		return nil, errors.NewValidationError("invalid reconsumption data", err.Error())
	}

	details := map[string]interface{}{
		"payment_method": cmd.Method.String(),
	}
	if cmd.FreeRenewal {
		details["free_renewal"] = true
	}
	if len(cmd.Payments) > 0 {
		details["payments"] = cmd.Payments
	}
	r.SetPaymentDetails(details)

	if err := uc.reconsumptionRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create reconsumption: %w", err)
	}
	return r, nil
}

// renewMembership extends the validity window synchronously for immediate
// channels and appends the renewal audit row.
func (uc *CreateReconsumptionUseCase) renewMembership(ctx context.Context, m *membership.Membership, r *membership.Reconsumption, amount decimal.Decimal, free bool) error {
	window := membership.CalculateRenewalDates(m.Status(), m.EndDate(), uc.today(), uc.graceDays)

	if err := m.ApplyRenewalWindow(window.StartDate, window.EndDate); err != nil {
		return errors.NewFailedPreconditionError("membership cannot be renewed", err.Error())
	}
	if err := uc.membershipRepo.Update(ctx, m); err != nil {
		return fmt.Errorf("failed to update membership window: %w", err)
	}

	notes := fmt.Sprintf("Membership renewed for amount %s", amount)
	if free {
		notes = "Membership renewed for free, order volume met"
	}
	h, err := membership.NewHistory(m.ID(), vo.ActionRenewed, notes)
	if err != nil {
		return fmt.Errorf("failed to build history entry: %w", err)
	}
	h.SetMetadata(map[string]interface{}{
		"reconsumption_id": r.ID(),
		"amount":           amount.String(),
		"free_renewal":     free,
		"new_start_date":   window.StartDate.Format("2006-01-02"),
		"new_end_date":     window.EndDate.Format("2006-01-02"),
	})
	if err := uc.historyRepo.Create(ctx, h); err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}
	return nil
}

func (uc *CreateReconsumptionUseCase) compensate(ctx context.Context, r *membership.Reconsumption) {
	if err := uc.reconsumptionRepo.Delete(ctx, r.ID()); err != nil {
		uc.logger.Errorw("reconsumption compensation failed",
			"reconsumption_id", r.ID(), "membership_id", r.MembershipID(), "error", err)
		return
	}
	uc.logger.Warnw("reconsumption compensated",
		"reconsumption_id", r.ID(), "membership_id", r.MembershipID())
}
