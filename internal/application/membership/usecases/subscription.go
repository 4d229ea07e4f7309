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

type ProcessSubscriptionCommand struct {
	UserID   string
	PlanID   uint
	Method   vo.PaymentMethod
	Payments []PaymentProof // voucher channel payload
	SourceID string         // gateway channel payload
}

type ProcessSubscriptionResult struct {
	Membership  *membership.Membership
	Receipt     *PaymentReceipt
	IsUpgrade   bool
	TotalAmount decimal.Decimal
}

// subscriptionStrategy is one payment channel of the subscription saga. The
// saga itself is shared; a strategy only validates its payload cheaply and
// shapes the payment request.
type subscriptionStrategy interface {
	Method() vo.PaymentMethod
	ValidatePayload(cmd ProcessSubscriptionCommand) error
	PaymentRequest(cmd ProcessSubscriptionCommand, m *membership.Membership, user *UserInfo, amount decimal.Decimal, metadata map[string]interface{}) PaymentRequest
}

// ProcessSubscriptionUseCase runs the subscription saga: guard checks,
// pricing, the local membership write, the remote payment call, and
// compensation of the local write when the payment leg fails. The resulting
// membership stays PENDING until an admin (or payment webhook) approves it.
type ProcessSubscriptionUseCase struct {
	membershipRepo membership.MembershipRepository
	planRepo       membership.PlanRepository
	historyRepo    membership.HistoryRepository
	pricing        *EvaluatePricingUseCase
	identity       IdentityClient
	payments       PaymentClient
	locker         UserLocker
	strategies     map[vo.PaymentMethod]subscriptionStrategy
	logger         logger.Interface
	today          func() time.Time
}

func NewProcessSubscriptionUseCase(
	membershipRepo membership.MembershipRepository,
	planRepo membership.PlanRepository,
	historyRepo membership.HistoryRepository,
	pricing *EvaluatePricingUseCase,
	identity IdentityClient,
	payments PaymentClient,
	locker UserLocker,
	logger logger.Interface,
) *ProcessSubscriptionUseCase {
	uc := &ProcessSubscriptionUseCase{
		membershipRepo: membershipRepo,
		planRepo:       planRepo,
		historyRepo:    historyRepo,
		pricing:        pricing,
		identity:       identity,
		payments:       payments,
		locker:         locker,
		strategies:     make(map[vo.PaymentMethod]subscriptionStrategy),
		logger:         logger,
		today:          biztime.Today,
	}

	for _, s := range []subscriptionStrategy{
		&voucherSubscriptionStrategy{},
		&pointsSubscriptionStrategy{},
		&gatewaySubscriptionStrategy{},
	} {
		uc.strategies[s.Method()] = s
	}

	return uc
}

func (uc *ProcessSubscriptionUseCase) Execute(ctx context.Context, cmd ProcessSubscriptionCommand) (*ProcessSubscriptionResult, error) {
	strategy, ok := uc.strategies[cmd.Method]
	if !ok {
		return nil, errors.NewValidationError("unsupported payment method", cmd.Method.String())
	}

	// Channel payload problems are rejected before anything is touched.
	if err := strategy.ValidatePayload(cmd); err != nil {
		return nil, err
	}

	// The PENDING guard below is check-then-act; the per-user lock closes
	// the race between two concurrent requests for the same user.
	release, err := uc.locker.Acquire(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire user lock: %w", err)
	}
	defer release()

	pending, err := uc.membershipRepo.GetPendingByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending membership: %w", err)
	}
	if pending != nil {
		return nil, errors.NewConflictError("a pending membership already exists",
			"wait until the current request is processed")
	}

	user, err := uc.identity.GetDetailedInfo(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	pricing, err := uc.pricing.Execute(ctx, EvaluatePricingCommand{UserID: cmd.UserID, PlanID: cmd.PlanID})
	if err != nil {
		return nil, err
	}

	var (
		m         *membership.Membership
		isUpgrade = pricing.IsUpgrade
	)
	if isUpgrade {
		m, err = uc.applyUpgrade(ctx, pricing)
	} else {
		m, err = uc.createMembership(ctx, cmd, user, pricing)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.appendPurchaseHistory(ctx, m, pricing); err != nil {
		uc.compensate(ctx, m, isUpgrade, "history")
		return nil, err
	}

	metadata := uc.paymentMetadata(pricing)
	receipt, err := uc.payments.Create(ctx, strategy.PaymentRequest(cmd, m, user, pricing.TotalAmount, metadata))
	if err != nil {
		uc.logger.Errorw("payment leg failed, compensating local write",
			"membership_id", m.ID(),
			"user_id", cmd.UserID,
			"method", cmd.Method.String(),
			"is_upgrade", isUpgrade,
			"saga_step", "payment.create",
			"error", err,
		)
		uc.compensate(ctx, m, isUpgrade, "payment.create")
		return nil, err
	}

	uc.logger.Infow("subscription processed",
		"membership_id", m.ID(),
		"user_id", cmd.UserID,
		"plan_id", cmd.PlanID,
		"method", cmd.Method.String(),
		"is_upgrade", isUpgrade,
		"amount", pricing.TotalAmount.String(),
		"payment_id", receipt.PaymentID,
	)

	return &ProcessSubscriptionResult{
		Membership:  m,
		Receipt:     receipt,
		IsUpgrade:   isUpgrade,
		TotalAmount: pricing.TotalAmount,
	}, nil
}

// createMembership writes a fresh PENDING membership with a window anchored
// to today.
func (uc *ProcessSubscriptionUseCase) createMembership(ctx context.Context, cmd ProcessSubscriptionCommand, user *UserInfo, pricing *EvaluatePricingResult) (*membership.Membership, error) {
	today := uc.today()
	window := membership.CalculateRenewalDates(vo.StatusPending, time.Time{}, today, membership.DefaultGraceDays)

	m, err := membership.NewMembership(
		cmd.UserID,
		user.Email,
		user.FullName,
		pricing.RequestedPlan.ID(),
		window.StartDate,
		window.EndDate,
		pricing.TotalAmount,
		pricing.RequestedPlan.CheckAmount(),
	)
	if err != nil {
		return nil, errors.NewValidationError("invalid membership data", err.Error())
	}

	if err := uc.membershipRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}
	return m, nil
}

// applyUpgrade mutates the existing row in place: the old plan becomes
// fromPlanID, the new plan takes over, status returns to PENDING.
func (uc *ProcessSubscriptionUseCase) applyUpgrade(ctx context.Context, pricing *EvaluatePricingResult) (*membership.Membership, error) {
	m := pricing.CurrentMembership
	if err := m.UpgradeTo(pricing.RequestedPlan.ID(), pricing.TotalAmount); err != nil {
		return nil, errors.NewFailedPreconditionError("membership cannot be upgraded", err.Error())
	}
	if err := uc.membershipRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update membership for upgrade: %w", err)
	}
	return m, nil
}

func (uc *ProcessSubscriptionUseCase) appendPurchaseHistory(ctx context.Context, m *membership.Membership, pricing *EvaluatePricingResult) error {
	action := vo.ActionPurchase
	notes := fmt.Sprintf("Plan %s purchased", pricing.RequestedPlan.Name())
	if pricing.IsUpgrade {
		action = vo.ActionUpgrade
		notes = fmt.Sprintf("Upgrade from plan %s to %s", pricing.CurrentPlan.Name(), pricing.RequestedPlan.Name())
	}

	h, err := membership.NewHistory(m.ID(), action, notes)
	if err != nil {
		return fmt.Errorf("failed to build history entry: %w", err)
	}
	h.SetMetadata(uc.paymentMetadata(pricing))

	if err := uc.historyRepo.Create(ctx, h); err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}
	return nil
}

func (uc *ProcessSubscriptionUseCase) paymentMetadata(pricing *EvaluatePricingResult) map[string]interface{} {
	if pricing.IsUpgrade {
		return map[string]interface{}{
			"from_plan": pricing.CurrentPlan.Name(),
			"to_plan":   pricing.RequestedPlan.Name(),
			"full_price": pricing.RequestedPlan.Price().String(),
			"delta":      pricing.TotalAmount.String(),
		}
	}
	return map[string]interface{}{
		"plan": pricing.RequestedPlan.Name(),
	}
}

// compensate undoes the local write after a later saga step failed: a fresh
// membership and its history rows are deleted outright, an upgrade has its
// prior plan and status restored. Compensation failures are logged, never
// returned; the caller propagates the original error.
func (uc *ProcessSubscriptionUseCase) compensate(ctx context.Context, m *membership.Membership, isUpgrade bool, step string) {
	if isUpgrade {
		if err := m.RevertUpgrade(); err != nil {
			uc.logger.Errorw("upgrade compensation failed",
				"membership_id", m.ID(), "saga_step", step, "error", err)
			return
		}
		if err := uc.membershipRepo.Update(ctx, m); err != nil {
			uc.logger.Errorw("upgrade compensation persist failed",
				"membership_id", m.ID(), "saga_step", step, "error", err)
			return
		}
		uc.logger.Warnw("upgrade compensated", "membership_id", m.ID(), "saga_step", step)
		return
	}

	if err := uc.historyRepo.DeleteByMembershipID(ctx, m.ID()); err != nil {
		uc.logger.Errorw("history compensation failed",
			"membership_id", m.ID(), "saga_step", step, "error", err)
	}
	if err := uc.membershipRepo.Delete(ctx, m.ID()); err != nil {
		uc.logger.Errorw("membership compensation failed",
			"membership_id", m.ID(), "saga_step", step, "error", err)
		return
	}
	uc.logger.Warnw("membership compensated", "membership_id", m.ID(), "saga_step", step)
}
