package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
)

type cutFixture struct {
	membershipRepo    *mockMembershipRepository
	planRepo          *mockPlanRepository
	reconsumptionRepo *mockReconsumptionRepository
	historyRepo       *mockHistoryRepository
	identity          *mockIdentityClient
	payments          *mockPaymentClient
	orders            *mockOrdersClient
	points            *mockPointsClient
	uc                *RunReconsumptionCutUseCase
}

func newCutFixture(t *testing.T, today string) *cutFixture {
	t.Helper()
	f := &cutFixture{
		membershipRepo:    new(mockMembershipRepository),
		planRepo:          new(mockPlanRepository),
		reconsumptionRepo: new(mockReconsumptionRepository),
		historyRepo:       new(mockHistoryRepository),
		identity:          new(mockIdentityClient),
		payments:          new(mockPaymentClient),
		orders:            new(mockOrdersClient),
		points:            new(mockPointsClient),
	}
	reconsume := NewCreateReconsumptionUseCase(
		f.membershipRepo, f.reconsumptionRepo, f.historyRepo, f.planRepo,
		f.identity, f.payments, stubLocker{}, 7, 7, testLogger(),
	)
	reconsume.today = fixedToday(t, today)
	f.uc = NewRunReconsumptionCutUseCase(
		f.membershipRepo, f.planRepo, f.historyRepo, reconsume,
		f.orders, f.points, decimal.RequireFromString("300"), 7, testLogger(),
	)
	f.uc.today = fixedToday(t, today)
	return f
}

func overdueMembership(t *testing.T, id uint, userID string, planID uint, end time.Time, autoRenewal, pointLot bool) *membership.Membership {
	t.Helper()
	m, err := membership.ReconstructMembership(
		id, userID, userID+"@example.com", "Test User",
		planID, nil, vo.StatusActive,
		end.AddDate(0, -1, 0), end,
		decimal.RequireFromString("500"), nil,
		decimal.RequireFromString("300"),
		autoRenewal, pointLot, false, false,
		nil,
		time.Now(), time.Now(),
	)
	require.NoError(t, err)
	return m
}

func (f *cutFixture) expectImmediateRenewal(m *membership.Membership) {
	f.membershipRepo.On("GetByID", mock.Anything, m.ID()).Return(m, nil)
	f.reconsumptionRepo.On("GetPendingByMembershipID", mock.Anything, m.ID()).Return(nil, nil)
	f.identity.On("GetDetailedInfo", mock.Anything, m.UserID()).Return(fixtureUser(m.UserID()), nil)
	f.reconsumptionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(&PaymentReceipt{PaymentID: "pay-cut", Status: "COMPLETED"}, nil)
	f.reconsumptionRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.membershipRepo.On("Update", mock.Anything, m).Return(nil)
	f.historyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
}

func TestCut_OrderVolumeMet_FreeRenewal(t *testing.T) {
	f := newCutFixture(t, "2026-03-05")
	m := overdueMembership(t, 7, "user-1", 2, day(t, "2026-03-01"), false, false)

	f.membershipRepo.On("FindExpired", mock.Anything, day(t, "2026-03-05")).
		Return([]*membership.Membership{m}, nil)
	f.orders.On("SummaryByPeriod", mock.Anything, mock.MatchedBy(func(queries []OrderPeriodQuery) bool {
		return len(queries) == 1 && queries[0].UserID == "user-1" &&
			queries[0].StartDate.Equal(day(t, "2026-02-08")) &&
			queries[0].EndDate.Equal(day(t, "2026-03-08"))
	})).Return([]OrderSummary{{
		UserID:             "user-1",
		TotalAmount:        decimal.RequireFromString("450"),
		OrderCount:         3,
		MeetsMinimumAmount: true,
	}}, nil)
	f.expectImmediateRenewal(m)

	result, err := f.uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalProcessed)
	assert.Equal(t, 1, result.FreeRenewals)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, CutDecisionFreeRenewal, result.Items[0].Decision)
	// still in grace, anchored on the old end date
	assert.Equal(t, day(t, "2026-04-01"), m.EndDate())
	assert.Equal(t, vo.StatusActive, m.Status())
	// volume path never consults the point balance
	f.points.AssertNotCalled(t, "GetUserPoints", mock.Anything, mock.Anything)
}

func TestCut_AutoRenewalWithEnoughPoints_Renews(t *testing.T) {
	f := newCutFixture(t, "2026-03-05")
	m := overdueMembership(t, 7, "user-1", 2, day(t, "2026-03-01"), true, false)
	plan := fixturePlan(t, 2, "Premium", "500", 100)

	f.membershipRepo.On("FindExpired", mock.Anything, mock.Anything).
		Return([]*membership.Membership{m}, nil)
	f.orders.On("SummaryByPeriod", mock.Anything, mock.Anything).Return([]OrderSummary{{
		UserID:             "user-1",
		TotalAmount:        decimal.RequireFromString("100"),
		MeetsMinimumAmount: false,
	}}, nil)
	f.planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	f.points.On("GetUserPoints", mock.Anything, "user-1").
		Return(&PointsBalance{AvailablePoints: decimal.RequireFromString("150")}, nil)

	// The renewal charges the plan's points requirement, not the
	// membership's minimum reconsumption amount.
	required := decimal.NewFromInt(int64(plan.PointsRequirement()))
	f.membershipRepo.On("GetByID", mock.Anything, m.ID()).Return(m, nil)
	f.reconsumptionRepo.On("GetPendingByMembershipID", mock.Anything, m.ID()).Return(nil, nil)
	f.identity.On("GetDetailedInfo", mock.Anything, m.UserID()).Return(fixtureUser(m.UserID()), nil)
	f.reconsumptionRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *membership.Reconsumption) bool {
		return r.Amount().Equal(required)
	})).Return(nil)
	f.payments.On("Create", mock.Anything, mock.MatchedBy(func(req PaymentRequest) bool {
		return req.Method == vo.PaymentMethodPoints && req.Amount.Equal(required)
	})).Return(&PaymentReceipt{PaymentID: "pay-cut", Status: "COMPLETED"}, nil)
	f.reconsumptionRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.membershipRepo.On("Update", mock.Anything, m).Return(nil)
	f.historyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Renewed)
	assert.Equal(t, CutDecisionRenewed, result.Items[0].Decision)
	assert.Equal(t, day(t, "2026-04-01"), m.EndDate())
}

func TestCut_PointLotSkipsVolumeCheck(t *testing.T) {
	f := newCutFixture(t, "2026-03-05")
	m := overdueMembership(t, 7, "user-1", 2, day(t, "2026-03-01"), false, true)
	plan := fixturePlan(t, 2, "Premium", "500", 100)

	f.membershipRepo.On("FindExpired", mock.Anything, mock.Anything).
		Return([]*membership.Membership{m}, nil)
	f.planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	f.points.On("GetUserPoints", mock.Anything, "user-1").
		Return(&PointsBalance{AvailablePoints: decimal.RequireFromString("200")}, nil)
	f.expectImmediateRenewal(m)

	result, err := f.uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Renewed)
	f.orders.AssertNotCalled(t, "SummaryByPeriod", mock.Anything, mock.Anything)
}

func TestCut_InsideGracePeriod_Skips(t *testing.T) {
	f := newCutFixture(t, "2026-03-05")
	m := overdueMembership(t, 7, "user-1", 2, day(t, "2026-03-01"), false, false)

	f.membershipRepo.On("FindExpired", mock.Anything, mock.Anything).
		Return([]*membership.Membership{m}, nil)
	f.orders.On("SummaryByPeriod", mock.Anything, mock.Anything).Return([]OrderSummary{{
		UserID:             "user-1",
		MeetsMinimumAmount: false,
	}}, nil)

	result, err := f.uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, CutDecisionSkipped, result.Items[0].Decision)
	assert.Equal(t, vo.StatusActive, m.Status())
	f.membershipRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCut_PastGracePeriod_Expires(t *testing.T) {
	f := newCutFixture(t, "2026-03-09")
	m := overdueMembership(t, 7, "user-1", 2, day(t, "2026-03-01"), false, false)

	f.membershipRepo.On("FindExpired", mock.Anything, mock.Anything).
		Return([]*membership.Membership{m}, nil)
	f.orders.On("SummaryByPeriod", mock.Anything, mock.Anything).Return([]OrderSummary{{
		UserID:             "user-1",
		MeetsMinimumAmount: false,
	}}, nil)
	f.membershipRepo.On("Update", mock.Anything, m).Return(nil)
	f.historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *membership.History) bool {
		return h.Action() == vo.ActionExpired
	})).Return(nil)

	result, err := f.uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, CutDecisionExpired, result.Items[0].Decision)
	assert.Equal(t, vo.StatusExpired, m.Status())
}

func TestCut_OneFailureDoesNotStopTheSweep(t *testing.T) {
	f := newCutFixture(t, "2026-03-09")
	failing := overdueMembership(t, 7, "user-1", 2, day(t, "2026-03-01"), true, false)
	expiring := overdueMembership(t, 8, "user-2", 2, day(t, "2026-03-01"), false, false)
	plan := fixturePlan(t, 2, "Premium", "500", 100)

	f.membershipRepo.On("FindExpired", mock.Anything, mock.Anything).
		Return([]*membership.Membership{failing, expiring}, nil)
	f.orders.On("SummaryByPeriod", mock.Anything, mock.Anything).Return([]OrderSummary{
		{UserID: "user-1", MeetsMinimumAmount: false},
		{UserID: "user-2", MeetsMinimumAmount: false},
	}, nil)

	// first membership: point renewal whose payment leg fails
	f.planRepo.On("GetByID", mock.Anything, uint(2)).Return(plan, nil)
	f.points.On("GetUserPoints", mock.Anything, "user-1").
		Return(&PointsBalance{AvailablePoints: decimal.RequireFromString("150")}, nil)
	f.membershipRepo.On("GetByID", mock.Anything, uint(7)).Return(failing, nil)
	f.reconsumptionRepo.On("GetPendingByMembershipID", mock.Anything, uint(7)).Return(nil, nil)
	f.identity.On("GetDetailedInfo", mock.Anything, "user-1").Return(fixtureUser("user-1"), nil)
	f.reconsumptionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("points service down"))
	f.reconsumptionRepo.On("Delete", mock.Anything, mock.Anything).Return(nil)

	// second membership: past grace, expires
	f.membershipRepo.On("Update", mock.Anything, expiring).Return(nil)
	f.historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *membership.History) bool {
		return h.Action() == vo.ActionExpired && h.MembershipID() == 8
	})).Return(nil)

	result, err := f.uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, result.Expired)
	assert.Contains(t, result.Items[0].Error, "point renewal failed")
	assert.Equal(t, CutDecisionExpired, result.Items[1].Decision)
	assert.Equal(t, vo.StatusActive, failing.Status())
	assert.Equal(t, vo.StatusExpired, expiring.Status())
}

func TestCut_NoCandidates(t *testing.T) {
	f := newCutFixture(t, "2026-03-09")
	f.membershipRepo.On("FindExpired", mock.Anything, mock.Anything).
		Return([]*membership.Membership{}, nil)

	result, err := f.uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalProcessed)
	f.orders.AssertNotCalled(t, "SummaryByPeriod", mock.Anything, mock.Anything)
}
