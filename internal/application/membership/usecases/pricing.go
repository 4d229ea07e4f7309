package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

type EvaluatePricingCommand struct {
	UserID string
	PlanID uint
}

type EvaluatePricingResult struct {
	TotalAmount       decimal.Decimal
	IsUpgrade         bool
	RequestedPlan     *membership.Plan
	CurrentMembership *membership.Membership
	CurrentPlan       *membership.Plan
}

// EvaluatePricingUseCase classifies a subscription request against the
// user's current membership: a fresh purchase at full price, an upgrade
// billed as the price delta, or an invalid request. Pure read; it runs
// before any mutation in the subscription saga.
type EvaluatePricingUseCase struct {
	membershipRepo membership.MembershipLookup
	planRepo       membership.PlanRepository
	logger         logger.Interface
}

func NewEvaluatePricingUseCase(
	membershipRepo membership.MembershipLookup,
	planRepo membership.PlanRepository,
	logger logger.Interface,
) *EvaluatePricingUseCase {
	return &EvaluatePricingUseCase{
		membershipRepo: membershipRepo,
		planRepo:       planRepo,
		logger:         logger,
	}
}

func (uc *EvaluatePricingUseCase) Execute(ctx context.Context, cmd EvaluatePricingCommand) (*EvaluatePricingResult, error) {
	requestedPlan, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if requestedPlan == nil {
		return nil, errors.NewNotFoundError("membership plan not found")
	}

	current, err := uc.membershipRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current membership: %w", err)
	}

	// No membership, or a deleted one: full price.
	if current == nil || current.Status() == vo.StatusDeleted {
		return &EvaluatePricingResult{
			TotalAmount:   requestedPlan.Price(),
			IsUpgrade:     false,
			RequestedPlan: requestedPlan,
		}, nil
	}

	if current.Status() == vo.StatusPending {
		return nil, errors.NewConflictError("a pending membership already exists",
			"wait until the current request is processed")
	}

	currentPlan, err := uc.planRepo.GetByID(ctx, current.PlanID())
	if err != nil {
		return nil, fmt.Errorf("failed to get current plan: %w", err)
	}
	if currentPlan == nil {
		return nil, errors.NewNotFoundError("current membership plan not found")
	}

	currentPrice := currentPlan.Price()
	requestedPrice := requestedPlan.Price()

	uc.logger.Debugw("comparing plan prices",
		"user_id", cmd.UserID,
		"current_plan_id", currentPlan.ID(),
		"current_price", currentPrice.String(),
		"requested_plan_id", requestedPlan.ID(),
		"requested_price", requestedPrice.String(),
	)

	switch {
	case requestedPrice.LessThan(currentPrice):
		return nil, errors.NewValidationError("downgrade not allowed",
			fmt.Sprintf("current plan costs %s, requested plan costs %s", currentPrice, requestedPrice))
	case requestedPrice.Equal(currentPrice):
		return nil, errors.NewValidationError("already subscribed to this plan")
	}

	return &EvaluatePricingResult{
		TotalAmount:       requestedPrice.Sub(currentPrice),
		IsUpgrade:         true,
		RequestedPlan:     requestedPlan,
		CurrentMembership: current,
		CurrentPlan:       currentPlan,
	}, nil
}
