package usecases

import (
	"context"
	"fmt"

	"nexus/internal/domain/membership"
	"nexus/internal/shared/authorization"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

// ListHistoryQuery scopes the audit trail lookup to its caller so
// members can only read their own record.
type ListHistoryQuery struct {
	MembershipID uint
	CallerID     string
	CallerRole   authorization.UserRole
}

// ListHistoryUseCase returns a membership's audit trail, newest first.
type ListHistoryUseCase struct {
	membershipRepo membership.MembershipRepository
	historyRepo    membership.HistoryRepository
	logger         logger.Interface
}

func NewListHistoryUseCase(membershipRepo membership.MembershipRepository, historyRepo membership.HistoryRepository, logger logger.Interface) *ListHistoryUseCase {
	return &ListHistoryUseCase{membershipRepo: membershipRepo, historyRepo: historyRepo, logger: logger}
}

func (uc *ListHistoryUseCase) Execute(ctx context.Context, query ListHistoryQuery) ([]*membership.History, error) {
	m, err := uc.membershipRepo.GetByID(ctx, query.MembershipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if m == nil {
		return nil, errors.NewNotFoundError("membership not found")
	}

	// Hide the record's existence from non-owners.
	if !authorization.CanAccessMembership(query.CallerID, query.CallerRole, m.UserID()) {
		return nil, errors.NewNotFoundError("membership not found")
	}

	entries, err := uc.historyRepo.ListByMembershipID(ctx, query.MembershipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}
