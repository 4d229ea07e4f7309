package usecases

import (
	"context"
	"fmt"
	"time"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/biztime"
	"nexus/internal/shared/logger"
)

type MembershipStatusResult struct {
	HasMembership bool
	Membership    *membership.Membership
	Plan          *membership.Plan
	DaysRemaining int
	CanReconsume  bool
	// PendingReconsumption is set when a renewal is awaiting review.
	PendingReconsumption *membership.Reconsumption
}

// GetMembershipStatusUseCase answers "what is this user's membership right
// now": the active record, its plan, days remaining, and whether a renewal
// can be started today.
type GetMembershipStatusUseCase struct {
	membershipRepo    membership.MembershipRepository
	planRepo          membership.PlanRepository
	reconsumptionRepo membership.ReconsumptionRepository
	renewalWindowDays int
	logger            logger.Interface
	today             func() time.Time
}

func NewGetMembershipStatusUseCase(
	membershipRepo membership.MembershipRepository,
	planRepo membership.PlanRepository,
	reconsumptionRepo membership.ReconsumptionRepository,
	renewalWindowDays int,
	logger logger.Interface,
) *GetMembershipStatusUseCase {
	if renewalWindowDays <= 0 {
		renewalWindowDays = membership.DefaultRenewalWindowDays
	}
	return &GetMembershipStatusUseCase{
		membershipRepo:    membershipRepo,
		planRepo:          planRepo,
		reconsumptionRepo: reconsumptionRepo,
		renewalWindowDays: renewalWindowDays,
		logger:            logger,
		today:             biztime.Today,
	}
}

func (uc *GetMembershipStatusUseCase) Execute(ctx context.Context, userID string) (*MembershipStatusResult, error) {
	m, err := uc.membershipRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if m == nil {
		return &MembershipStatusResult{}, nil
	}

	plan, err := uc.planRepo.GetByID(ctx, m.PlanID())
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	pending, err := uc.reconsumptionRepo.GetPendingByMembershipID(ctx, m.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to check pending reconsumption: %w", err)
	}

	today := uc.today()
	daysRemaining := 0
	if m.EndDate().After(today) {
		daysRemaining = int(m.EndDate().Sub(today).Hours() / 24)
	}

	canReconsume := m.Status().CanReconsume() && pending == nil &&
		(m.Status() != vo.StatusActive || m.WithinRenewalWindow(today, uc.renewalWindowDays))

	return &MembershipStatusResult{
		HasMembership:        true,
		Membership:           m,
		Plan:                 plan,
		DaysRemaining:        daysRemaining,
		CanReconsume:         canReconsume,
		PendingReconsumption: pending,
	}, nil
}
