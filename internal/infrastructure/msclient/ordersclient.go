package msclient

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"nexus/internal/application/membership/usecases"
)

// OrdersClient aggregates order volumes on the order service.
type OrdersClient struct {
	client  *Client
	subject string
}

// NewOrdersClient creates an order service client.
func NewOrdersClient(client *Client, subject string) *OrdersClient {
	return &OrdersClient{client: client, subject: subject}
}

type orderPeriodQuery struct {
	UserID        string          `json:"user_id"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	MinimumAmount decimal.Decimal `json:"minimum_amount"`
}

type orderSummaryResponse struct {
	Summaries []orderSummary `json:"summaries"`
}

type orderSummary struct {
	UserID             string          `json:"user_id"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	OrderCount         int             `json:"order_count"`
	MeetsMinimumAmount bool            `json:"meets_minimum_amount"`
}

// SummaryByPeriod returns per-user order volume over each query window.
func (c *OrdersClient) SummaryByPeriod(ctx context.Context, queries []usecases.OrderPeriodQuery) ([]usecases.OrderSummary, error) {
	body := make([]orderPeriodQuery, 0, len(queries))
	for _, q := range queries {
		body = append(body, orderPeriodQuery{
			UserID:        q.UserID,
			StartDate:     q.StartDate,
			EndDate:       q.EndDate,
			MinimumAmount: q.MinimumAmount,
		})
	}

	var resp orderSummaryResponse
	err := c.client.request(ctx, c.subject, "orders.summary_by_period", map[string]interface{}{"queries": body}, &resp)
	if err != nil {
		return nil, err
	}

	summaries := make([]usecases.OrderSummary, 0, len(resp.Summaries))
	for _, s := range resp.Summaries {
		summaries = append(summaries, usecases.OrderSummary{
			UserID:             s.UserID,
			TotalAmount:        s.TotalAmount,
			OrderCount:         s.OrderCount,
			MeetsMinimumAmount: s.MeetsMinimumAmount,
		})
	}
	return summaries, nil
}
