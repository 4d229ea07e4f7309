package msclient

import (
	"context"

	"github.com/shopspring/decimal"

	"nexus/internal/application/membership/usecases"
)

// PaymentClient creates payments on the payment service.
type PaymentClient struct {
	client  *Client
	subject string
}

// NewPaymentClient creates a payment service client.
func NewPaymentClient(client *Client, subject string) *PaymentClient {
	return &PaymentClient{client: client, subject: subject}
}

type createPaymentRequest struct {
	UserID            string                 `json:"user_id"`
	UserEmail         string                 `json:"user_email"`
	UserName          string                 `json:"user_name"`
	Amount            decimal.Decimal        `json:"amount"`
	PaymentMethod     string                 `json:"payment_method"`
	RelatedEntityType string                 `json:"related_entity_type"`
	RelatedEntityID   uint                   `json:"related_entity_id"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
	Proofs            []usecases.PaymentProof `json:"proofs,omitempty"`
	SourceID          string                 `json:"source_id,omitempty"`
}

type createPaymentResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// Create registers a payment and returns the service's acknowledgement.
func (c *PaymentClient) Create(ctx context.Context, req usecases.PaymentRequest) (*usecases.PaymentReceipt, error) {
	body := createPaymentRequest{
		UserID:            req.UserID,
		UserEmail:         req.UserEmail,
		UserName:          req.UserName,
		Amount:            req.Amount,
		PaymentMethod:     req.Method.String(),
		RelatedEntityType: req.RelatedEntityType,
		RelatedEntityID:   req.RelatedEntityID,
		Metadata:          req.Metadata,
		Proofs:            req.Proofs,
		SourceID:          req.SourceID,
	}

	var resp createPaymentResponse
	if err := c.client.request(ctx, c.subject, "payment.create", body, &resp); err != nil {
		return nil, err
	}

	return &usecases.PaymentReceipt{
		PaymentID: resp.PaymentID,
		Status:    resp.Status,
	}, nil
}
