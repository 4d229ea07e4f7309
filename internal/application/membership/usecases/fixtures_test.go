package usecases

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func fixturePlan(t *testing.T, id uint, name string, price string, binaryPoints int) *membership.Plan {
	t.Helper()
	p, err := membership.ReconstructPlan(
		id, name,
		decimal.RequireFromString(price), decimal.RequireFromString("300"),
		binaryPoints,
		decimal.RequireFromString("10"),
		nil, int(id), true,
		time.Now(), time.Now(),
	)
	require.NoError(t, err)
	return p
}

func fixtureMembership(t *testing.T, id uint, userID string, planID uint, status vo.MembershipStatus, start, end time.Time) *membership.Membership {
	t.Helper()
	m, err := membership.ReconstructMembership(
		id, userID, userID+"@example.com", "Test User",
		planID, nil, status,
		start, end,
		decimal.RequireFromString("500"), nil,
		decimal.RequireFromString("300"),
		false, false, false, false,
		nil,
		time.Now(), time.Now(),
	)
	require.NoError(t, err)
	return m
}

func fixtureUser(userID string) *UserInfo {
	return &UserInfo{
		ID:       userID,
		Email:    userID + "@example.com",
		FullName: "Test User",
	}
}

func fixedToday(t *testing.T, value string) func() time.Time {
	t.Helper()
	d := day(t, value)
	return func() time.Time { return d }
}
