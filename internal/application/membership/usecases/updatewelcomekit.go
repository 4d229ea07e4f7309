package usecases

import (
	"context"
	"fmt"

	"nexus/internal/domain/membership"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

// UpdateWelcomeKitUseCase marks a membership's welcome kit as delivered.
type UpdateWelcomeKitUseCase struct {
	membershipRepo membership.MembershipRepository
	logger         logger.Interface
}

func NewUpdateWelcomeKitUseCase(membershipRepo membership.MembershipRepository, logger logger.Interface) *UpdateWelcomeKitUseCase {
	return &UpdateWelcomeKitUseCase{membershipRepo: membershipRepo, logger: logger}
}

func (uc *UpdateWelcomeKitUseCase) Execute(ctx context.Context, membershipID uint) (*membership.Membership, error) {
	m, err := uc.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if m == nil {
		return nil, errors.NewNotFoundError("membership not found")
	}

	if m.WelcomeKitDelivered() {
		return m, nil
	}

	m.MarkWelcomeKitDelivered(true)
	if err := uc.membershipRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}

	uc.logger.Infow("welcome kit marked delivered", "membership_id", m.ID())
	return m, nil
}
