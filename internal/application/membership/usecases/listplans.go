package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/logger"
)

// PlanOption is a catalog entry annotated for one specific user: whether
// buying it would be an upgrade, and what it would cost them.
type PlanOption struct {
	Plan        *membership.Plan
	IsUpgrade   bool
	UpgradeCost decimal.Decimal
}

// ListPlansUseCase returns the active catalog ordered for display. When the
// caller already holds an active membership, cheaper and equal plans are
// filtered out and the remaining options priced as upgrades.
type ListPlansUseCase struct {
	planRepo       membership.PlanRepository
	membershipRepo membership.MembershipLookup
	logger         logger.Interface
}

func NewListPlansUseCase(planRepo membership.PlanRepository, membershipRepo membership.MembershipLookup, logger logger.Interface) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: planRepo, membershipRepo: membershipRepo, logger: logger}
}

// Execute lists plan options for userID. An empty userID returns the plain
// catalog.
func (uc *ListPlansUseCase) Execute(ctx context.Context, userID string) ([]PlanOption, error) {
	plans, err := uc.planRepo.GetAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	var current *membership.Plan
	if userID != "" {
		m, err := uc.membershipRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get membership: %w", err)
		}
		if m != nil && m.Status() == vo.StatusActive {
			current, err = uc.planRepo.GetByID(ctx, m.PlanID())
			if err != nil {
				return nil, fmt.Errorf("failed to get current plan: %w", err)
			}
		}
	}

	options := make([]PlanOption, 0, len(plans))
	for _, p := range plans {
		opt := PlanOption{Plan: p, UpgradeCost: p.Price()}
		if current != nil {
			if p.Price().LessThanOrEqual(current.Price()) {
				continue
			}
			opt.IsUpgrade = true
			opt.UpgradeCost = p.Price().Sub(current.Price())
		}
		options = append(options, opt)
	}

	return options, nil
}
