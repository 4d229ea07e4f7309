package usecases

import (
	"context"
	"fmt"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

type ListMembershipsCommand struct {
	UserID   string
	PlanID   uint
	Status   string
	Page     int
	PageSize int
}

type ListMembershipsResult struct {
	Memberships []*membership.Membership
	Total       int64
}

// ListMembershipsUseCase is the administrative listing with filters and
// pagination.
type ListMembershipsUseCase struct {
	membershipRepo membership.MembershipRepository
	logger         logger.Interface
}

func NewListMembershipsUseCase(membershipRepo membership.MembershipRepository, logger logger.Interface) *ListMembershipsUseCase {
	return &ListMembershipsUseCase{membershipRepo: membershipRepo, logger: logger}
}

func (uc *ListMembershipsUseCase) Execute(ctx context.Context, cmd ListMembershipsCommand) (*ListMembershipsResult, error) {
	filter := membership.MembershipFilter{
		Page:     cmd.Page,
		PageSize: cmd.PageSize,
	}
	if cmd.UserID != "" {
		filter.UserID = &cmd.UserID
	}
	if cmd.PlanID != 0 {
		filter.PlanID = &cmd.PlanID
	}
	if cmd.Status != "" {
		status := vo.MembershipStatus(cmd.Status)
		if !vo.ValidStatuses[status] {
			return nil, errors.NewValidationError("invalid membership status", cmd.Status)
		}
		filter.Status = &status
	}

	items, total, err := uc.membershipRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	return &ListMembershipsResult{Memberships: items, Total: total}, nil
}
