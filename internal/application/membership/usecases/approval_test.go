package usecases

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	apperrors "nexus/internal/shared/errors"
)

func TestApproveMembership_NewSubscription(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)
	historyRepo := new(mockHistoryRepository)
	notifier := new(mockNotifier)

	pending := fixtureMembership(t, 7, "user-1", 2, vo.StatusPending,
		day(t, "2026-03-10"), day(t, "2026-04-10"))
	plan := fixturePlan(t, 2, "Premium", "500", 100)

	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(pending, nil)
	membershipRepo.On("Update", mock.Anything, pending).Return(nil)
	historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *membership.History) bool {
		return h.Action() == vo.ActionPaymentReceived
	})).Return(nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	notifier.On("MembershipApproved", mock.Anything, "user-1@example.com", "Test User", "Premium").Return(nil)

	uc := NewApproveMembershipUseCase(membershipRepo, planRepo, historyRepo,
		stubTransactor{}, notifier, testLogger())

	result, err := uc.Execute(context.Background(), ApproveMembershipCommand{
		MembershipID:     7,
		PaymentReference: "pay-1",
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, result.Status())
	require.NotNil(t, result.PaymentReference())
	assert.Equal(t, "pay-1", *result.PaymentReference())
	membershipRepo.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestApproveMembership_Upgrade_RecordsUpgradeAction(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)
	historyRepo := new(mockHistoryRepository)
	notifier := new(mockNotifier)

	m := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-01-01"), day(t, "2026-02-01"))
	require.NoError(t, m.UpgradeTo(3, decimal.RequireFromString("400")))
	plan := fixturePlan(t, 3, "VIP", "900", 200)

	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(m, nil)
	membershipRepo.On("Update", mock.Anything, m).Return(nil)
	historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *membership.History) bool {
		return h.Action() == vo.ActionUpgrade
	})).Return(nil)
	planRepo.On("GetByID", mock.Anything, uint(3)).Return(plan, nil)
	notifier.On("MembershipApproved", mock.Anything, mock.Anything, mock.Anything, "VIP").Return(nil)

	uc := NewApproveMembershipUseCase(membershipRepo, planRepo, historyRepo,
		stubTransactor{}, notifier, testLogger())

	result, err := uc.Execute(context.Background(), ApproveMembershipCommand{
		MembershipID:     7,
		PaymentReference: "pay-2",
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, result.Status())
	assert.Equal(t, uint(3), result.PlanID())
	historyRepo.AssertExpectations(t)
}

func TestApproveMembership_NotPending_Fails(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)

	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-03-10"), day(t, "2026-04-10"))
	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(active, nil)

	uc := NewApproveMembershipUseCase(membershipRepo, new(mockPlanRepository),
		new(mockHistoryRepository), stubTransactor{}, new(mockNotifier), testLogger())

	_, err := uc.Execute(context.Background(), ApproveMembershipCommand{MembershipID: 7})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFailedPrecondition))
	membershipRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApproveMembership_NotFound(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	membershipRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, nil)

	uc := NewApproveMembershipUseCase(membershipRepo, new(mockPlanRepository),
		new(mockHistoryRepository), stubTransactor{}, new(mockNotifier), testLogger())

	_, err := uc.Execute(context.Background(), ApproveMembershipCommand{MembershipID: 99})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRejectMembership_MarksDeleted(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	historyRepo := new(mockHistoryRepository)
	notifier := new(mockNotifier)

	pending := fixtureMembership(t, 7, "user-1", 2, vo.StatusPending,
		day(t, "2026-03-10"), day(t, "2026-04-10"))

	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(pending, nil)
	membershipRepo.On("Update", mock.Anything, pending).Return(nil)
	historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *membership.History) bool {
		return h.Action() == vo.ActionCancelled
	})).Return(nil)
	notifier.On("MembershipRejected", mock.Anything, "user-1@example.com", "Test User", "invalid voucher").Return(nil)

	uc := NewRejectMembershipUseCase(membershipRepo, historyRepo, stubTransactor{}, notifier, testLogger())

	err := uc.Execute(context.Background(), RejectMembershipCommand{
		MembershipID: 7,
		Reason:       "invalid voucher",
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusDeleted, pending.Status())
	membershipRepo.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRejectPlanUpgrade_RestoresPriorPlan(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)
	historyRepo := new(mockHistoryRepository)

	m := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-01-01"), day(t, "2026-02-01"))
	require.NoError(t, m.UpgradeTo(3, decimal.RequireFromString("400")))
	priorPlan := fixturePlan(t, 2, "Premium", "500", 100)

	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(m, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(priorPlan, nil)
	membershipRepo.On("Update", mock.Anything, m).Return(nil)
	historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *membership.History) bool {
		return h.Action() == vo.ActionCancelled
	})).Return(nil)

	uc := NewRejectPlanUpgradeUseCase(membershipRepo, planRepo, historyRepo, stubTransactor{}, testLogger())

	result, err := uc.Execute(context.Background(), RejectPlanUpgradeCommand{
		MembershipID: 7,
		Reason:       "payment mismatch",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(2), result.PlanID())
	assert.Nil(t, result.FromPlanID())
	assert.Equal(t, vo.StatusActive, result.Status())
	membershipRepo.AssertExpectations(t)
}

func TestRejectPlanUpgrade_NotAnUpgrade(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)

	pending := fixtureMembership(t, 7, "user-1", 2, vo.StatusPending,
		day(t, "2026-03-10"), day(t, "2026-04-10"))
	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(pending, nil)

	uc := NewRejectPlanUpgradeUseCase(membershipRepo, new(mockPlanRepository),
		new(mockHistoryRepository), stubTransactor{}, testLogger())

	_, err := uc.Execute(context.Background(), RejectPlanUpgradeCommand{MembershipID: 7})

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestRejectPlanUpgrade_PriorPlanGone(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)

	m := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-01-01"), day(t, "2026-02-01"))
	require.NoError(t, m.UpgradeTo(3, decimal.RequireFromString("400")))

	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(m, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(nil, nil)

	uc := NewRejectPlanUpgradeUseCase(membershipRepo, planRepo,
		new(mockHistoryRepository), stubTransactor{}, testLogger())

	_, err := uc.Execute(context.Background(), RejectPlanUpgradeCommand{MembershipID: 7})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	membershipRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApproveReconsumption_ExtendsWindow(t *testing.T) {
	reconsumptionRepo := new(mockReconsumptionRepository)
	membershipRepo := new(mockMembershipRepository)
	historyRepo := new(mockHistoryRepository)

	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-02-15"), day(t, "2026-03-15"))
	row, err := membership.NewReconsumption(7, decimal.RequireFromString("300"), day(t, "2026-03-12"))
	require.NoError(t, err)
	require.NoError(t, row.SetID(3))

	reconsumptionRepo.On("GetByID", mock.Anything, uint(3)).Return(row, nil)
	membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(active, nil)
	reconsumptionRepo.On("Update", mock.Anything, row).Return(nil)
	membershipRepo.On("Update", mock.Anything, active).Return(nil)
	historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *membership.History) bool {
		return h.Action() == vo.ActionReconsumptionAdded
	})).Return(nil)

	uc := NewApproveReconsumptionUseCase(reconsumptionRepo, membershipRepo, historyRepo,
		stubTransactor{}, 7, testLogger())
	uc.today = fixedToday(t, "2026-03-16")

	result, err := uc.Execute(context.Background(), ApproveReconsumptionCommand{
		ReconsumptionID:  3,
		PaymentReference: "pay-3",
	})

	require.NoError(t, err)
	assert.Equal(t, vo.ReconsumptionStatusActive, result.Reconsumption.Status())
	// one day past expiry, still in grace: anchored on the old end date
	assert.Equal(t, day(t, "2026-03-15"), result.NewStartDate)
	assert.Equal(t, day(t, "2026-04-15"), result.NewEndDate)
	assert.Equal(t, vo.StatusActive, active.Status())
	assert.Equal(t, day(t, "2026-04-15"), active.EndDate())
	membershipRepo.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
}

func TestApproveReconsumption_NotPending_Fails(t *testing.T) {
	reconsumptionRepo := new(mockReconsumptionRepository)

	row, err := membership.NewActiveReconsumption(7, decimal.RequireFromString("300"), day(t, "2026-03-12"))
	require.NoError(t, err)
	require.NoError(t, row.SetID(3))
	reconsumptionRepo.On("GetByID", mock.Anything, uint(3)).Return(row, nil)

	uc := NewApproveReconsumptionUseCase(reconsumptionRepo, new(mockMembershipRepository),
		new(mockHistoryRepository), stubTransactor{}, 7, testLogger())

	_, err = uc.Execute(context.Background(), ApproveReconsumptionCommand{ReconsumptionID: 3})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFailedPrecondition))
}

func TestRejectReconsumption_Cancels(t *testing.T) {
	reconsumptionRepo := new(mockReconsumptionRepository)

	row, err := membership.NewReconsumption(7, decimal.RequireFromString("300"), day(t, "2026-03-12"))
	require.NoError(t, err)
	require.NoError(t, row.SetID(3))

	reconsumptionRepo.On("GetByID", mock.Anything, uint(3)).Return(row, nil)
	reconsumptionRepo.On("Update", mock.Anything, row).Return(nil)

	uc := NewRejectReconsumptionUseCase(reconsumptionRepo, testLogger())

	err = uc.Execute(context.Background(), RejectReconsumptionCommand{
		ReconsumptionID: 3,
		Reason:          "voucher unreadable",
	})

	require.NoError(t, err)
	assert.Equal(t, vo.ReconsumptionStatusCancelled, row.Status())
	assert.Contains(t, row.Notes(), "voucher unreadable")
	reconsumptionRepo.AssertExpectations(t)
}
