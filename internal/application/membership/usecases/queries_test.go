package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/authorization"
	"nexus/internal/shared/errors"
)

func TestListPlans_NoMembership_FullCatalog(t *testing.T) {
	planRepo := new(mockPlanRepository)
	membershipRepo := new(mockMembershipRepository)

	basic := fixturePlan(t, 1, "Basic", "300", 50)
	premium := fixturePlan(t, 2, "Premium", "500", 100)
	planRepo.On("GetAllActive", mock.Anything).Return([]*membership.Plan{basic, premium}, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(nil, nil)

	uc := NewListPlansUseCase(planRepo, membershipRepo, testLogger())

	options, err := uc.Execute(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.False(t, options[0].IsUpgrade)
	assert.Equal(t, "300", options[0].UpgradeCost.String())
	assert.Equal(t, "500", options[1].UpgradeCost.String())
}

func TestListPlans_ActiveMembership_OnlyUpgrades(t *testing.T) {
	planRepo := new(mockPlanRepository)
	membershipRepo := new(mockMembershipRepository)

	basic := fixturePlan(t, 1, "Basic", "300", 50)
	premium := fixturePlan(t, 2, "Premium", "500", 100)
	vip := fixturePlan(t, 3, "VIP", "900", 200)
	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-02-15"), day(t, "2026-03-15"))

	planRepo.On("GetAllActive", mock.Anything).Return([]*membership.Plan{basic, premium, vip}, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(active, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(premium, nil)

	uc := NewListPlansUseCase(planRepo, membershipRepo, testLogger())

	options, err := uc.Execute(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, uint(3), options[0].Plan.ID())
	assert.True(t, options[0].IsUpgrade)
	assert.Equal(t, "400", options[0].UpgradeCost.String())
}

func TestGetMembershipStatus_NoMembership(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(nil, nil)

	uc := NewGetMembershipStatusUseCase(membershipRepo, new(mockPlanRepository),
		new(mockReconsumptionRepository), 7, testLogger())

	result, err := uc.Execute(context.Background(), "user-1")

	require.NoError(t, err)
	assert.False(t, result.HasMembership)
	assert.False(t, result.CanReconsume)
}

func TestGetMembershipStatus_ActiveInsideWindow(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)
	reconsumptionRepo := new(mockReconsumptionRepository)

	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-02-15"), day(t, "2026-03-15"))
	plan := fixturePlan(t, 2, "Premium", "500", 100)

	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(active, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	reconsumptionRepo.On("GetPendingByMembershipID", mock.Anything, uint(7)).Return(nil, nil)

	uc := NewGetMembershipStatusUseCase(membershipRepo, planRepo, reconsumptionRepo, 7, testLogger())
	uc.today = fixedToday(t, "2026-03-10")

	result, err := uc.Execute(context.Background(), "user-1")

	require.NoError(t, err)
	assert.True(t, result.HasMembership)
	assert.Equal(t, 5, result.DaysRemaining)
	assert.True(t, result.CanReconsume)
}

func TestGetMembershipStatus_ActiveOutsideWindow(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)
	reconsumptionRepo := new(mockReconsumptionRepository)

	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-02-15"), day(t, "2026-03-15"))
	plan := fixturePlan(t, 2, "Premium", "500", 100)

	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(active, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	reconsumptionRepo.On("GetPendingByMembershipID", mock.Anything, uint(7)).Return(nil, nil)

	uc := NewGetMembershipStatusUseCase(membershipRepo, planRepo, reconsumptionRepo, 7, testLogger())
	uc.today = fixedToday(t, "2026-02-20")

	result, err := uc.Execute(context.Background(), "user-1")

	require.NoError(t, err)
	assert.True(t, result.HasMembership)
	assert.False(t, result.CanReconsume)
}

func TestListReconsumptions_PendingRowBlocksRenewal(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	reconsumptionRepo := new(mockReconsumptionRepository)

	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-02-15"), day(t, "2026-03-15"))
	pending, err := membership.NewReconsumption(7, active.MinimumReconsumptionAmount(), day(t, "2026-03-10"))
	require.NoError(t, err)

	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(active, nil)
	reconsumptionRepo.On("ListByMembershipID", mock.Anything, uint(7)).
		Return([]*membership.Reconsumption{pending}, nil)

	uc := NewListReconsumptionsUseCase(membershipRepo, reconsumptionRepo, 7, testLogger())
	uc.today = fixedToday(t, "2026-03-10")

	result, err := uc.Execute(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, result.Reconsumptions, 1)
	assert.False(t, result.CanReconsume)
}

func TestUpdateMembership_StatusChange(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	historyRepo := new(mockHistoryRepository)

	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-02-15"), day(t, "2026-03-15"))

	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(active, nil)
	membershipRepo.On("Update", mock.Anything, active).Return(nil)
	historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *membership.History) bool {
		return h.Action() == vo.ActionStatusChanged
	})).Return(nil)

	uc := NewUpdateMembershipUseCase(membershipRepo, historyRepo, stubTransactor{}, testLogger())

	result, err := uc.Execute(context.Background(), UpdateMembershipCommand{
		MembershipID: 7,
		Status:       "SUSPENDED",
		Notes:        "chargeback under review",
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusSuspended, result.Status())
	historyRepo.AssertExpectations(t)
}

func TestUpdateMembership_InvalidTransition(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)

	deleted := fixtureMembership(t, 7, "user-1", 2, vo.StatusDeleted,
		day(t, "2026-02-15"), day(t, "2026-03-15"))
	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(deleted, nil)

	uc := NewUpdateMembershipUseCase(membershipRepo, new(mockHistoryRepository), stubTransactor{}, testLogger())

	_, err := uc.Execute(context.Background(), UpdateMembershipCommand{
		MembershipID: 7,
		Status:       "ACTIVE",
	})

	require.Error(t, err)
	membershipRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateMembership_NoChanges(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)

	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-02-15"), day(t, "2026-03-15"))
	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(active, nil)

	uc := NewUpdateMembershipUseCase(membershipRepo, new(mockHistoryRepository), stubTransactor{}, testLogger())

	_, err := uc.Execute(context.Background(), UpdateMembershipCommand{MembershipID: 7})

	require.Error(t, err)
}

func TestListHistory_Owner(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	historyRepo := new(mockHistoryRepository)

	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-02-15"), day(t, "2026-03-15"))
	created, err := membership.NewHistory(7, vo.ActionCreated, "subscription requested")
	require.NoError(t, err)

	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(active, nil)
	historyRepo.On("ListByMembershipID", mock.Anything, uint(7)).
		Return([]*membership.History{created}, nil)

	uc := NewListHistoryUseCase(membershipRepo, historyRepo, testLogger())

	entries, err := uc.Execute(context.Background(), ListHistoryQuery{
		MembershipID: 7,
		CallerID:     "user-1",
		CallerRole:   authorization.RoleUser,
	})

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, vo.ActionCreated, entries[0].Action())
}

func TestListHistory_NonOwnerSeesNotFound(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	historyRepo := new(mockHistoryRepository)

	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-02-15"), day(t, "2026-03-15"))
	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(active, nil)

	uc := NewListHistoryUseCase(membershipRepo, historyRepo, testLogger())

	_, err := uc.Execute(context.Background(), ListHistoryQuery{
		MembershipID: 7,
		CallerID:     "user-2",
		CallerRole:   authorization.RoleUser,
	})

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	historyRepo.AssertNotCalled(t, "ListByMembershipID", mock.Anything, mock.Anything)
}

func TestListHistory_AdminSeesAny(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	historyRepo := new(mockHistoryRepository)

	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-02-15"), day(t, "2026-03-15"))
	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(active, nil)
	historyRepo.On("ListByMembershipID", mock.Anything, uint(7)).
		Return([]*membership.History{}, nil)

	uc := NewListHistoryUseCase(membershipRepo, historyRepo, testLogger())

	entries, err := uc.Execute(context.Background(), ListHistoryQuery{
		MembershipID: 7,
		CallerID:     "admin-1",
		CallerRole:   authorization.RoleAdmin,
	})

	require.NoError(t, err)
	assert.Empty(t, entries)
}
