package membership

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	p, err := NewPlan("Executive", decimal.NewFromInt(500), decimal.NewFromInt(300), 60, decimal.NewFromInt(10))

	require.NoError(t, err)
	assert.True(t, p.IsActive())
	assert.Equal(t, 60, p.PointsRequirement())
}

func TestNewPlan_Invalid(t *testing.T) {
	price := decimal.NewFromInt(500)
	check := decimal.NewFromInt(300)

	_, err := NewPlan("", price, check, 60, decimal.Zero)
	assert.Error(t, err)

	_, err = NewPlan("Basic", decimal.Zero, check, 60, decimal.Zero)
	assert.Error(t, err)

	_, err = NewPlan("Basic", price, decimal.NewFromInt(-1), 60, decimal.Zero)
	assert.Error(t, err)

	_, err = NewPlan("Basic", price, check, -1, decimal.Zero)
	assert.Error(t, err)
}

func TestReconstructPlan(t *testing.T) {
	now := time.Now()
	direct := decimal.NewFromInt(25)

	p, err := ReconstructPlan(3, "Premium", decimal.NewFromInt(1000), decimal.NewFromInt(500),
		120, decimal.NewFromFloat(12.5), &direct, 2, false, now, now)

	require.NoError(t, err)
	assert.Equal(t, uint(3), p.ID())
	assert.False(t, p.IsActive())
	require.NotNil(t, p.DirectCommissionAmount())
	assert.True(t, direct.Equal(*p.DirectCommissionAmount()))

	_, err = ReconstructPlan(0, "Premium", decimal.Zero, decimal.Zero, 0, decimal.Zero, nil, 0, true, now, now)
	assert.Error(t, err)
}
