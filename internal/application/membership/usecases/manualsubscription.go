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

type ManualSubscriptionCommand struct {
	Email  string
	PlanID uint
	Notes  string
}

type ManualSubscriptionResult struct {
	Membership *membership.Membership
}

// ManualSubscriptionUseCase lets an operator enroll a user by email without
// a payment leg: the identity service resolves the email, the membership is
// created directly ACTIVE, and a history row records who got what. Used for
// comped and migrated members.
type ManualSubscriptionUseCase struct {
	membershipRepo membership.MembershipRepository
	planRepo       membership.PlanRepository
	historyRepo    membership.HistoryRepository
	identity       IdentityClient
	locker         UserLocker
	logger         logger.Interface
	today          func() time.Time
}

func NewManualSubscriptionUseCase(
	membershipRepo membership.MembershipRepository,
	planRepo membership.PlanRepository,
	historyRepo membership.HistoryRepository,
	identity IdentityClient,
	locker UserLocker,
	logger logger.Interface,
) *ManualSubscriptionUseCase {
	return &ManualSubscriptionUseCase{
		membershipRepo: membershipRepo,
		planRepo:       planRepo,
		historyRepo:    historyRepo,
		identity:       identity,
		locker:         locker,
		logger:         logger,
		today:          biztime.Today,
	}
}

func (uc *ManualSubscriptionUseCase) Execute(ctx context.Context, cmd ManualSubscriptionCommand) (*ManualSubscriptionResult, error) {
	if cmd.Email == "" {
		return nil, errors.NewValidationError("email is required")
	}

	plan, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, errors.NewNotFoundError("membership plan not found")
	}

	user, err := uc.identity.FindByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user not found", cmd.Email)
	}

	release, err := uc.locker.Acquire(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire user lock: %w", err)
	}
	defer release()

	existing, err := uc.membershipRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}
	if existing != nil && existing.Status() != vo.StatusDeleted {
		return nil, errors.NewConflictError("user already has a membership",
			fmt.Sprintf("membership %d in status %s", existing.ID(), existing.Status()))
	}

	today := uc.today()
	window := membership.CalculateRenewalDates(vo.StatusPending, time.Time{}, today, membership.DefaultGraceDays)

	m, err := membership.NewMembership(user.ID, user.Email, user.FullName, plan.ID(),
		window.StartDate, window.EndDate, plan.Price(), plan.CheckAmount())
	if err != nil {
		return nil, errors.NewValidationError("invalid membership data", err.Error())
	}
	if err := m.Activate(""); err != nil {
		return nil, fmt.Errorf("failed to activate manual membership: %w", err)
	}

	if err := uc.membershipRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	h, err := membership.NewHistory(m.ID(), vo.ActionCreated,
		fmt.Sprintf("Manual subscription to plan %s", plan.Name()))
	if err == nil {
		h.SetMetadata(map[string]interface{}{
			"plan":  plan.Name(),
			"notes": cmd.Notes,
		})
		err = uc.historyRepo.Create(ctx, h)
	}
	if err != nil {
		uc.logger.Errorw("failed to record manual subscription history",
			"membership_id", m.ID(), "user_id", user.ID, "error", err)
	}

	uc.logger.Infow("manual subscription created",
		"membership_id", m.ID(), "user_id", user.ID, "plan_id", plan.ID())

	return &ManualSubscriptionResult{Membership: m}, nil
}
