package usecases

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"nexus/internal/domain/membership"
	"nexus/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// stubLocker hands out the lock unconditionally.
type stubLocker struct{}

func (stubLocker) Acquire(ctx context.Context, userID string) (func(), error) {
	return func() {}, nil
}

// stubTransactor runs the function directly, no transaction.
type stubTransactor struct{}

func (stubTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockMembershipRepository struct {
	mock.Mock
}

func (m *mockMembershipRepository) Create(ctx context.Context, mem *membership.Membership) error {
	args := m.Called(ctx, mem)
	if args.Error(0) == nil && mem.ID() == 0 {
		_ = mem.SetID(1)
	}
	return args.Error(0)
}

func (m *mockMembershipRepository) GetByID(ctx context.Context, id uint) (*membership.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

func (m *mockMembershipRepository) GetByUserID(ctx context.Context, userID string) (*membership.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

func (m *mockMembershipRepository) GetPendingByUserID(ctx context.Context, userID string) (*membership.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

func (m *mockMembershipRepository) Update(ctx context.Context, mem *membership.Membership) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *mockMembershipRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockMembershipRepository) FindExpired(ctx context.Context, asOf time.Time) ([]*membership.Membership, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*membership.Membership), args.Error(1)
}

func (m *mockMembershipRepository) List(ctx context.Context, filter membership.MembershipFilter) ([]*membership.Membership, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*membership.Membership), args.Get(1).(int64), args.Error(2)
}

type mockPlanRepository struct {
	mock.Mock
}

func (m *mockPlanRepository) GetByID(ctx context.Context, id uint) (*membership.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Plan), args.Error(1)
}

func (m *mockPlanRepository) GetAllActive(ctx context.Context) ([]*membership.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*membership.Plan), args.Error(1)
}

type mockReconsumptionRepository struct {
	mock.Mock
}

func (m *mockReconsumptionRepository) Create(ctx context.Context, r *membership.Reconsumption) error {
	args := m.Called(ctx, r)
	if args.Error(0) == nil && r.ID() == 0 {
		_ = r.SetID(1)
	}
	return args.Error(0)
}

func (m *mockReconsumptionRepository) GetByID(ctx context.Context, id uint) (*membership.Reconsumption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Reconsumption), args.Error(1)
}

func (m *mockReconsumptionRepository) GetPendingByMembershipID(ctx context.Context, membershipID uint) (*membership.Reconsumption, error) {
	args := m.Called(ctx, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Reconsumption), args.Error(1)
}

func (m *mockReconsumptionRepository) ListByMembershipID(ctx context.Context, membershipID uint) ([]*membership.Reconsumption, error) {
	args := m.Called(ctx, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*membership.Reconsumption), args.Error(1)
}

func (m *mockReconsumptionRepository) Update(ctx context.Context, r *membership.Reconsumption) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockReconsumptionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockHistoryRepository struct {
	mock.Mock
}

func (m *mockHistoryRepository) Create(ctx context.Context, h *membership.History) error {
	args := m.Called(ctx, h)
	if args.Error(0) == nil && h.ID() == 0 {
		_ = h.SetID(1)
	}
	return args.Error(0)
}

func (m *mockHistoryRepository) ListByMembershipID(ctx context.Context, membershipID uint) ([]*membership.History, error) {
	args := m.Called(ctx, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*membership.History), args.Error(1)
}

func (m *mockHistoryRepository) DeleteByMembershipID(ctx context.Context, membershipID uint) error {
	args := m.Called(ctx, membershipID)
	return args.Error(0)
}

type mockIdentityClient struct {
	mock.Mock
}

func (m *mockIdentityClient) GetDetailedInfo(ctx context.Context, userID string) (*UserInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserInfo), args.Error(1)
}

func (m *mockIdentityClient) FindByEmail(ctx context.Context, email string) (*UserInfo, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserInfo), args.Error(1)
}

type mockPaymentClient struct {
	mock.Mock
}

func (m *mockPaymentClient) Create(ctx context.Context, req PaymentRequest) (*PaymentReceipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentReceipt), args.Error(1)
}

type mockPointsClient struct {
	mock.Mock
}

func (m *mockPointsClient) GetUserPoints(ctx context.Context, userID string) (*PointsBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PointsBalance), args.Error(1)
}

func (m *mockPointsClient) ProcessWeeklyVolumes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockOrdersClient struct {
	mock.Mock
}

func (m *mockOrdersClient) SummaryByPeriod(ctx context.Context, queries []OrderPeriodQuery) ([]OrderSummary, error) {
	args := m.Called(ctx, queries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OrderSummary), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) MembershipApproved(ctx context.Context, email, name, planName string) error {
	args := m.Called(ctx, email, name, planName)
	return args.Error(0)
}

func (m *mockNotifier) MembershipRejected(ctx context.Context, email, name, reason string) error {
	args := m.Called(ctx, email, name, reason)
	return args.Error(0)
}
