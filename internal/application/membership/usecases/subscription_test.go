package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	vo "nexus/internal/domain/membership/valueobjects"
	apperrors "nexus/internal/shared/errors"
)

func newSubscriptionUseCase(
	membershipRepo *mockMembershipRepository,
	planRepo *mockPlanRepository,
	historyRepo *mockHistoryRepository,
	identity *mockIdentityClient,
	payments *mockPaymentClient,
) *ProcessSubscriptionUseCase {
	pricing := NewEvaluatePricingUseCase(membershipRepo, planRepo, testLogger())
	return NewProcessSubscriptionUseCase(
		membershipRepo, planRepo, historyRepo, pricing,
		identity, payments, stubLocker{}, testLogger(),
	)
}

func voucherPayments(amount string) []PaymentProof {
	return []PaymentProof{{
		BankName:             "BCP",
		TransactionReference: "OP-123",
		TransactionDate:      "2026-03-10",
		Amount:               decimal.RequireFromString(amount),
	}}
}

func TestProcessSubscription_NewMembership_Voucher(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)
	historyRepo := new(mockHistoryRepository)
	identity := new(mockIdentityClient)
	payments := new(mockPaymentClient)

	plan := fixturePlan(t, 2, "Premium", "500", 100)

	membershipRepo.On("GetPendingByUserID", mock.Anything, "user-1").Return(nil, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(nil, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	identity.On("GetDetailedInfo", mock.Anything, "user-1").Return(fixtureUser("user-1"), nil)
	membershipRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	historyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	payments.On("Create", mock.Anything, mock.Anything).Return(&PaymentReceipt{PaymentID: "pay-1", Status: "PENDING"}, nil)

	uc := newSubscriptionUseCase(membershipRepo, planRepo, historyRepo, identity, payments)
	uc.today = fixedToday(t, "2026-03-10")

	result, err := uc.Execute(context.Background(), ProcessSubscriptionCommand{
		UserID:   "user-1",
		PlanID:   2,
		Method:   vo.PaymentMethodVoucher,
		Payments: voucherPayments("500"),
	})

	require.NoError(t, err)
	assert.False(t, result.IsUpgrade)
	assert.Equal(t, vo.StatusPending, result.Membership.Status())
	assert.Equal(t, "500", result.TotalAmount.String())
	assert.Equal(t, day(t, "2026-03-10"), result.Membership.StartDate())
	assert.Equal(t, day(t, "2026-04-10"), result.Membership.EndDate())
	assert.Equal(t, "pay-1", result.Receipt.PaymentID)

	membershipRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	membershipRepo.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
	payments.AssertExpectations(t)
}

func TestProcessSubscription_Upgrade_BilledAsDelta(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)
	historyRepo := new(mockHistoryRepository)
	identity := new(mockIdentityClient)
	payments := new(mockPaymentClient)

	currentPlan := fixturePlan(t, 2, "Premium", "500", 100)
	requestedPlan := fixturePlan(t, 3, "VIP", "900", 200)
	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-01-01"), day(t, "2026-02-01"))

	membershipRepo.On("GetPendingByUserID", mock.Anything, "user-1").Return(nil, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(active, nil)
	planRepo.On("GetByID", mock.Anything, uint(3)).Return(requestedPlan, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(currentPlan, nil)
	identity.On("GetDetailedInfo", mock.Anything, "user-1").Return(fixtureUser("user-1"), nil)
	membershipRepo.On("Update", mock.Anything, active).Return(nil)
	historyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	payments.On("Create", mock.Anything, mock.MatchedBy(func(req PaymentRequest) bool {
		return req.Amount.Equal(decimal.RequireFromString("400"))
	})).Return(&PaymentReceipt{PaymentID: "pay-2", Status: "PENDING"}, nil)

	uc := newSubscriptionUseCase(membershipRepo, planRepo, historyRepo, identity, payments)

	result, err := uc.Execute(context.Background(), ProcessSubscriptionCommand{
		UserID:   "user-1",
		PlanID:   3,
		Method:   vo.PaymentMethodVoucher,
		Payments: voucherPayments("400"),
	})

	require.NoError(t, err)
	assert.True(t, result.IsUpgrade)
	assert.Equal(t, vo.StatusPending, active.Status())
	assert.Equal(t, uint(3), active.PlanID())
	require.NotNil(t, active.FromPlanID())
	assert.Equal(t, uint(2), *active.FromPlanID())
	assert.Equal(t, "400", result.TotalAmount.String())
	membershipRepo.AssertExpectations(t)
}

func TestProcessSubscription_PaymentFails_CompensatesNewMembership(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)
	historyRepo := new(mockHistoryRepository)
	identity := new(mockIdentityClient)
	payments := new(mockPaymentClient)

	plan := fixturePlan(t, 2, "Premium", "500", 100)
	paymentErr := apperrors.NewUpstreamError("payment service unavailable", errors.New("nats: timeout"))

	membershipRepo.On("GetPendingByUserID", mock.Anything, "user-1").Return(nil, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(nil, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	identity.On("GetDetailedInfo", mock.Anything, "user-1").Return(fixtureUser("user-1"), nil)
	membershipRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	historyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	payments.On("Create", mock.Anything, mock.Anything).Return(nil, paymentErr)
	historyRepo.On("DeleteByMembershipID", mock.Anything, uint(1)).Return(nil)
	membershipRepo.On("Delete", mock.Anything, uint(1)).Return(nil)

	uc := newSubscriptionUseCase(membershipRepo, planRepo, historyRepo, identity, payments)
	uc.today = fixedToday(t, "2026-03-10")

	result, err := uc.Execute(context.Background(), ProcessSubscriptionCommand{
		UserID:   "user-1",
		PlanID:   2,
		Method:   vo.PaymentMethodVoucher,
		Payments: voucherPayments("500"),
	})

	require.Error(t, err)
	assert.Nil(t, result)
	// original error surfaces unchanged
	assert.ErrorIs(t, err, paymentErr)
	membershipRepo.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
}

func TestProcessSubscription_PaymentFails_CompensatesUpgrade(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)
	historyRepo := new(mockHistoryRepository)
	identity := new(mockIdentityClient)
	payments := new(mockPaymentClient)

	currentPlan := fixturePlan(t, 2, "Premium", "500", 100)
	requestedPlan := fixturePlan(t, 3, "VIP", "900", 200)
	active := fixtureMembership(t, 7, "user-1", 2, vo.StatusActive,
		day(t, "2026-01-01"), day(t, "2026-02-01"))

	membershipRepo.On("GetPendingByUserID", mock.Anything, "user-1").Return(nil, nil)
	membershipRepo.On("GetByUserID", mock.Anything, "user-1").Return(active, nil)
	planRepo.On("GetByID", mock.Anything, uint(3)).Return(requestedPlan, nil)
	planRepo.On("GetByID", mock.Anything, uint(2)).Return(currentPlan, nil)
	identity.On("GetDetailedInfo", mock.Anything, "user-1").Return(fixtureUser("user-1"), nil)
	membershipRepo.On("Update", mock.Anything, active).Return(nil)
	historyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	payments.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("payment rejected"))

	uc := newSubscriptionUseCase(membershipRepo, planRepo, historyRepo, identity, payments)

	_, err := uc.Execute(context.Background(), ProcessSubscriptionCommand{
		UserID:   "user-1",
		PlanID:   3,
		Method:   vo.PaymentMethodVoucher,
		Payments: voucherPayments("400"),
	})

	require.Error(t, err)
	// prior plan and status restored, the audit row stays
	assert.Equal(t, vo.StatusActive, active.Status())
	assert.Equal(t, uint(2), active.PlanID())
	assert.Nil(t, active.FromPlanID())
	membershipRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	historyRepo.AssertNotCalled(t, "DeleteByMembershipID", mock.Anything, mock.Anything)
}

func TestProcessSubscription_PendingMembership_Conflict(t *testing.T) {
	membershipRepo := new(mockMembershipRepository)
	planRepo := new(mockPlanRepository)
	historyRepo := new(mockHistoryRepository)
	identity := new(mockIdentityClient)
	payments := new(mockPaymentClient)

	pending := fixtureMembership(t, 9, "user-1", 2, vo.StatusPending,
		day(t, "2026-01-01"), day(t, "2026-02-01"))
	membershipRepo.On("GetPendingByUserID", mock.Anything, "user-1").Return(pending, nil)

	uc := newSubscriptionUseCase(membershipRepo, planRepo, historyRepo, identity, payments)

	_, err := uc.Execute(context.Background(), ProcessSubscriptionCommand{
		UserID:   "user-1",
		PlanID:   2,
		Method:   vo.PaymentMethodVoucher,
		Payments: voucherPayments("500"),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	identity.AssertNotCalled(t, "GetDetailedInfo", mock.Anything, mock.Anything)
}

func TestProcessSubscription_VoucherWithoutProofs_Rejected(t *testing.T) {
	uc := newSubscriptionUseCase(new(mockMembershipRepository), new(mockPlanRepository),
		new(mockHistoryRepository), new(mockIdentityClient), new(mockPaymentClient))

	_, err := uc.Execute(context.Background(), ProcessSubscriptionCommand{
		UserID: "user-1",
		PlanID: 2,
		Method: vo.PaymentMethodVoucher,
	})

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestProcessSubscription_GatewayWithoutSource_Rejected(t *testing.T) {
	uc := newSubscriptionUseCase(new(mockMembershipRepository), new(mockPlanRepository),
		new(mockHistoryRepository), new(mockIdentityClient), new(mockPaymentClient))

	_, err := uc.Execute(context.Background(), ProcessSubscriptionCommand{
		UserID: "user-1",
		PlanID: 2,
		Method: vo.PaymentMethodGateway,
	})

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestProcessSubscription_UnsupportedMethod(t *testing.T) {
	uc := newSubscriptionUseCase(new(mockMembershipRepository), new(mockPlanRepository),
		new(mockHistoryRepository), new(mockIdentityClient), new(mockPaymentClient))

	_, err := uc.Execute(context.Background(), ProcessSubscriptionCommand{
		UserID: "user-1",
		PlanID: 2,
		Method: vo.PaymentMethod("BARTER"),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
