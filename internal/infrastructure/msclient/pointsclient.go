package msclient

import (
	"context"

	"github.com/shopspring/decimal"

	"nexus/internal/application/membership/usecases"
)

// PointsClient talks to the loyalty points service.
type PointsClient struct {
	client  *Client
	subject string
}

// NewPointsClient creates a points service client.
func NewPointsClient(client *Client, subject string) *PointsClient {
	return &PointsClient{client: client, subject: subject}
}

type pointsBalanceResponse struct {
	AvailablePoints decimal.Decimal `json:"available_points"`
}

// GetUserPoints returns a user's available points balance.
func (c *PointsClient) GetUserPoints(ctx context.Context, userID string) (*usecases.PointsBalance, error) {
	var resp pointsBalanceResponse
	err := c.client.request(ctx, c.subject, "points.get_balance", map[string]string{"user_id": userID}, &resp)
	if err != nil {
		return nil, err
	}
	return &usecases.PointsBalance{AvailablePoints: resp.AvailablePoints}, nil
}

// ProcessWeeklyVolumes triggers the weekly binary volume settlement.
func (c *PointsClient) ProcessWeeklyVolumes(ctx context.Context) error {
	return c.client.request(ctx, c.subject, "points.process_weekly_volumes", struct{}{}, nil)
}
