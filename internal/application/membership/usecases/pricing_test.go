package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/errors"
)

func TestEvaluatePricing_NoMembership_FullPrice(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)

	plan := fixturePlan(t, 2, "Premium", "500", 100)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(nil, nil)

	uc := NewEvaluatePricingUseCase(membershipRepo, planRepo, testLogger())

	result, err := uc.Execute(context.Background(), EvaluatePricingCommand{UserID: "user-1", PlanID: 2})

	require.NoError(t, err)
	assert.False(t, result.IsUpgrade)
	assert.True(t, result.TotalAmount.Equal(plan.Price()))
	assert.Nil(t, result.CurrentMembership)
	membershipRepo.AssertExpectations(t)
	planRepo.AssertExpectations(t)
}

func TestEvaluatePricing_DeletedMembership_FullPrice(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)

	plan := fixturePlan(t, 2, "Premium", "500", 100)
	deleted := fixtureMembership(t, 9, "user-1", 1, vo.StatusDeleted,
		day(t, "2026-01-01"), day(t, "2026-02-01"))

	planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(deleted, nil)

	uc := NewEvaluatePricingUseCase(membershipRepo, planRepo, testLogger())

	result, err := uc.Execute(context.Background(), EvaluatePricingCommand{UserID: "user-1", PlanID: 2})

	require.NoError(t, err)
	assert.False(t, result.IsUpgrade)
	assert.True(t, result.TotalAmount.Equal(plan.Price()))
}

func TestEvaluatePricing_PendingMembership_Conflict(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)

	plan := fixturePlan(t, 2, "Premium", "500", 100)
	pending := fixtureMembership(t, 9, "user-1", 1, vo.StatusPending,
		day(t, "2026-01-01"), day(t, "2026-02-01"))

	planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(pending, nil)

	uc := NewEvaluatePricingUseCase(membershipRepo, planRepo, testLogger())

	result, err := uc.Execute(context.Background(), EvaluatePricingCommand{UserID: "user-1", PlanID: 2})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsConflict(err))
}

func TestEvaluatePricing_Downgrade_Rejected(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)

	requested := fixturePlan(t, 1, "Basic", "300", 50)
	current := fixturePlan(t, 2, "Premium", "500", 100)
	active := fixtureMembership(t, 9, "user-1", 2, vo.StatusActive,
		day(t, "2026-01-01"), day(t, "2026-02-01"))

	planRepo.On("GetByID", mock.Anything, uint(1)).Return(requested, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(current, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(active, nil)

	uc := NewEvaluatePricingUseCase(membershipRepo, planRepo, testLogger())

	_, err := uc.Execute(context.Background(), EvaluatePricingCommand{UserID: "user-1", PlanID: 1})

	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Message, "downgrade")
}

func TestEvaluatePricing_SamePlan_Rejected(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)

	plan := fixturePlan(t, 2, "Premium", "500", 100)
	active := fixtureMembership(t, 9, "user-1", 2, vo.StatusActive,
		day(t, "2026-01-01"), day(t, "2026-02-01"))

	planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(active, nil)

	uc := NewEvaluatePricingUseCase(membershipRepo, planRepo, testLogger())

	_, err := uc.Execute(context.Background(), EvaluatePricingCommand{UserID: "user-1", PlanID: 2})

	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Message, "already subscribed")
}

func TestEvaluatePricing_Upgrade_Delta(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)

	requested := fixturePlan(t, 3, "VIP", "900", 200)
	current := fixturePlan(t, 2, "Premium", "500", 100)
	active := fixtureMembership(t, 9, "user-1", 2, vo.StatusActive,
		day(t, "2026-01-01"), day(t, "2026-02-01"))

	planRepo.On("GetByID", mock.Anything, uint(3)).Return(requested, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(current, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(active, nil)

	uc := NewEvaluatePricingUseCase(membershipRepo, planRepo, testLogger())

	result, err := uc.Execute(context.Background(), EvaluatePricingCommand{UserID: "user-1", PlanID: 3})

	require.NoError(t, err)
	assert.True(t, result.IsUpgrade)
	assert.Equal(t, "400", result.TotalAmount.String())
	assert.Same(t, active, result.CurrentMembership)
	assert.Same(t, current, result.CurrentPlan)
}

func TestEvaluatePricing_PlanNotFound(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)

	planRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, nil)

	uc := NewEvaluatePricingUseCase(membershipRepo, planRepo, testLogger())

	_, err := uc.Execute(context.Background(), EvaluatePricingCommand{UserID: "user-1", PlanID: 99})

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
