package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/infrastructure/persistence/models"
	"nexus/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.MembershipPlanModel{},
		&models.MembershipModel{},
		&models.ReconsumptionModel{},
		&models.MembershipHistoryModel{},
	)
	require.NoError(t, err)

	return db
}

func createTestMembership(t *testing.T, userID string) *membership.Membership {
	start := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	m, err := membership.NewMembership(
		userID, userID+"@example.com", "Test User", 1,
		start, end,
		decimal.NewFromInt(1500), decimal.NewFromInt(300),
	)
	require.NoError(t, err)
	return m
}

func TestMembershipRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("create assigns ID", func(t *testing.T) {
		m := createTestMembership(t, "user-create")

		err := repo.Create(ctx, m)
		require.NoError(t, err)
		assert.NotZero(t, m.ID())
	})

	t.Run("get by ID round-trips fields", func(t *testing.T) {
		m := createTestMembership(t, "user-get")
		require.NoError(t, repo.Create(ctx, m))

		found, err := repo.GetByID(ctx, m.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, m.UserID(), found.UserID())
		assert.Equal(t, vo.StatusPending, found.Status())
		assert.True(t, m.PaidAmount().Equal(found.PaidAmount()))
	})

	t.Run("get by ID returns nil when missing", func(t *testing.T) {
		found, err := repo.GetByID(ctx, 99999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("get by user ID returns most recent non-deleted", func(t *testing.T) {
		m := createTestMembership(t, "user-latest")
		require.NoError(t, repo.Create(ctx, m))

		found, err := repo.GetByUserID(ctx, "user-latest")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, m.ID(), found.ID())
	})

	t.Run("get pending by user ID", func(t *testing.T) {
		m := createTestMembership(t, "user-pending")
		require.NoError(t, repo.Create(ctx, m))

		found, err := repo.GetPendingByUserID(ctx, "user-pending")
		require.NoError(t, err)
		require.NotNil(t, found)

		require.NoError(t, found.Activate("PAY-123"))
		require.NoError(t, repo.Update(ctx, found))

		found, err = repo.GetPendingByUserID(ctx, "user-pending")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestMembershipRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db, logger.NewLogger())
	ctx := context.Background()

	m := createTestMembership(t, "user-update")
	require.NoError(t, repo.Create(ctx, m))

	require.NoError(t, m.Activate("PAY-UPD"))
	require.NoError(t, repo.Update(ctx, m))

	found, err := repo.GetByID(ctx, m.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, found.Status())
	require.NotNil(t, found.PaymentReference())
	assert.Equal(t, "PAY-UPD", *found.PaymentReference())
}

func TestMembershipRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db, logger.NewLogger())
	ctx := context.Background()

	m := createTestMembership(t, "user-delete")
	require.NoError(t, repo.Create(ctx, m))

	require.NoError(t, repo.Delete(ctx, m.ID()))

	found, err := repo.GetByID(ctx, m.ID())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMembershipRepository_FindExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db, logger.NewLogger())
	ctx := context.Background()

	expired := createTestMembership(t, "user-expired")
	require.NoError(t, expired.Activate("PAY-EXP"))
	require.NoError(t, repo.Create(ctx, expired))

	current := createTestMembership(t, "user-current")
	require.NoError(t, current.Activate("PAY-CUR"))
	require.NoError(t, current.UpdateEndDate(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Create(ctx, current))

	pending := createTestMembership(t, "user-still-pending")
	require.NoError(t, repo.Create(ctx, pending))

	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// A period closing today is already due for the cut.
	dueToday := createTestMembership(t, "user-due-today")
	require.NoError(t, dueToday.Activate("PAY-DUE"))
	require.NoError(t, dueToday.UpdateEndDate(asOf))
	require.NoError(t, repo.Create(ctx, dueToday))

	found, err := repo.FindExpired(ctx, asOf)
	require.NoError(t, err)

	require.Len(t, found, 2)
	users := []string{found[0].UserID(), found[1].UserID()}
	assert.Contains(t, users, "user-expired")
	assert.Contains(t, users, "user-due-today")
}

func TestMembershipRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db, logger.NewLogger())
	ctx := context.Background()

	for _, userID := range []string{"list-a", "list-b", "list-c"} {
		m := createTestMembership(t, userID)
		require.NoError(t, repo.Create(ctx, m))
	}
	active := createTestMembership(t, "list-active")
	require.NoError(t, active.Activate("PAY-LST"))
	require.NoError(t, repo.Create(ctx, active))

	t.Run("filter by status", func(t *testing.T) {
		status := vo.StatusActive
		items, total, err := repo.List(ctx, membership.MembershipFilter{
			Status:   &status,
			Page:     1,
			PageSize: 10,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "list-active", items[0].UserID())
	})

	t.Run("filter by user", func(t *testing.T) {
		userID := "list-b"
		items, total, err := repo.List(ctx, membership.MembershipFilter{
			UserID:   &userID,
			Page:     1,
			PageSize: 10,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, items, 1)
	})

	t.Run("pagination", func(t *testing.T) {
		items, total, err := repo.List(ctx, membership.MembershipFilter{
			Page:     1,
			PageSize: 2,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Len(t, items, 2)
	})
}

func TestReconsumptionRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	memberRepo := NewMembershipRepository(db, logger.NewLogger())
	repo := NewReconsumptionRepository(db, logger.NewLogger())
	ctx := context.Background()

	m := createTestMembership(t, "recon-user")
	require.NoError(t, m.Activate("PAY-RC"))
	require.NoError(t, memberRepo.Create(ctx, m))

	period := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	rc, err := membership.NewReconsumption(m.ID(), decimal.NewFromInt(300), period)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, rc))
	assert.NotZero(t, rc.ID())

	pending, err := repo.GetPendingByMembershipID(ctx, m.ID())
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, vo.ReconsumptionStatusPending, pending.Status())

	require.NoError(t, pending.Activate("PAY-RC-2"))
	require.NoError(t, repo.Update(ctx, pending))

	pending, err = repo.GetPendingByMembershipID(ctx, m.ID())
	require.NoError(t, err)
	assert.Nil(t, pending)

	all, err := repo.ListByMembershipID(ctx, m.ID())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, vo.ReconsumptionStatusActive, all[0].Status())
}

func TestHistoryRepository_AppendAndCompensate(t *testing.T) {
	db := setupTestDB(t)
	memberRepo := NewMembershipRepository(db, logger.NewLogger())
	repo := NewMembershipHistoryRepository(db, logger.NewLogger())
	ctx := context.Background()

	m := createTestMembership(t, "hist-user")
	require.NoError(t, memberRepo.Create(ctx, m))

	created, err := membership.NewHistory(m.ID(), vo.ActionCreated, "subscription requested")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, created))

	renewed, err := membership.NewHistory(m.ID(), vo.ActionRenewed, "renewal confirmed")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, renewed))

	rows, err := repo.ListByMembershipID(ctx, m.ID())
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, repo.DeleteByMembershipID(ctx, m.ID()))

	rows, err = repo.ListByMembershipID(ctx, m.ID())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
