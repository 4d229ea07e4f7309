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

type ReconsumptionListResult struct {
	Reconsumptions []*membership.Reconsumption
	CanReconsume   bool
}

// ListReconsumptionsUseCase returns a membership's renewal history along
// with whether a new renewal can be started right now.
type ListReconsumptionsUseCase struct {
	membershipRepo    membership.MembershipRepository
	reconsumptionRepo membership.ReconsumptionRepository
	renewalWindowDays int
	logger            logger.Interface
	today             func() time.Time
}

func NewListReconsumptionsUseCase(
	membershipRepo membership.MembershipRepository,
	reconsumptionRepo membership.ReconsumptionRepository,
	renewalWindowDays int,
	logger logger.Interface,
) *ListReconsumptionsUseCase {
	if renewalWindowDays <= 0 {
		renewalWindowDays = membership.DefaultRenewalWindowDays
	}
	return &ListReconsumptionsUseCase{
		membershipRepo:    membershipRepo,
		reconsumptionRepo: reconsumptionRepo,
		renewalWindowDays: renewalWindowDays,
		logger:            logger,
		today:             biztime.Today,
	}
}

func (uc *ListReconsumptionsUseCase) Execute(ctx context.Context, userID string) (*ReconsumptionListResult, error) {
	m, err := uc.membershipRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if m == nil {
		return &ReconsumptionListResult{Reconsumptions: []*membership.Reconsumption{}}, nil
	}

	items, err := uc.reconsumptionRepo.ListByMembershipID(ctx, m.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list reconsumptions: %w", err)
	}

	hasPending := false
	for _, r := range items {
		if r.Status() == vo.ReconsumptionStatusPending {
			hasPending = true
			break
		}
	}

	canReconsume := m.Status().CanReconsume() && !hasPending &&
		(m.Status() != vo.StatusActive || m.WithinRenewalWindow(uc.today(), uc.renewalWindowDays))

	return &ReconsumptionListResult{
		Reconsumptions: items,
		CanReconsume:   canReconsume,
	}, nil
}
