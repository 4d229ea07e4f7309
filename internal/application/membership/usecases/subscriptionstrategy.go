package usecases

import (
	"github.com/shopspring/decimal"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/errors"
)

// voucherSubscriptionStrategy is the proof-of-payment channel: the user
// uploads bank vouchers, an operator approves later.
type voucherSubscriptionStrategy struct{}

func (s *voucherSubscriptionStrategy) Method() vo.PaymentMethod {
	return vo.PaymentMethodVoucher
}

func (s *voucherSubscriptionStrategy) ValidatePayload(cmd ProcessSubscriptionCommand) error {
	if len(cmd.Payments) == 0 {
		return errors.NewValidationError("voucher method requires at least one payment detail")
	}
	for _, p := range cmd.Payments {
		if p.Amount.IsNegative() || p.Amount.IsZero() {
			return errors.NewValidationError("payment detail amount must be positive")
		}
	}
	return nil
}

func (s *voucherSubscriptionStrategy) PaymentRequest(cmd ProcessSubscriptionCommand, m *membership.Membership, user *UserInfo, amount decimal.Decimal, metadata map[string]interface{}) PaymentRequest {
	return PaymentRequest{
		UserID:            cmd.UserID,
		UserEmail:         user.Email,
		UserName:          user.FullName,
		Amount:            amount,
		Method:            vo.PaymentMethodVoucher,
		RelatedEntityType: "membership",
		RelatedEntityID:   m.ID(),
		Metadata:          metadata,
		Proofs:            cmd.Payments,
	}
}

// pointsSubscriptionStrategy debits the user's loyalty point balance
// synchronously through the payment collaborator.
type pointsSubscriptionStrategy struct{}

func (s *pointsSubscriptionStrategy) Method() vo.PaymentMethod {
	return vo.PaymentMethodPoints
}

func (s *pointsSubscriptionStrategy) ValidatePayload(cmd ProcessSubscriptionCommand) error {
	return nil
}

func (s *pointsSubscriptionStrategy) PaymentRequest(cmd ProcessSubscriptionCommand, m *membership.Membership, user *UserInfo, amount decimal.Decimal, metadata map[string]interface{}) PaymentRequest {
	return PaymentRequest{
		UserID:            cmd.UserID,
		UserEmail:         user.Email,
		UserName:          user.FullName,
		Amount:            amount,
		Method:            vo.PaymentMethodPoints,
		RelatedEntityType: "membership",
		RelatedEntityID:   m.ID(),
		Metadata:          metadata,
	}
}

// gatewaySubscriptionStrategy charges a tokenized card via the external
// payment gateway.
type gatewaySubscriptionStrategy struct{}

func (s *gatewaySubscriptionStrategy) Method() vo.PaymentMethod {
	return vo.PaymentMethodGateway
}

func (s *gatewaySubscriptionStrategy) ValidatePayload(cmd ProcessSubscriptionCommand) error {
	if cmd.SourceID == "" {
		return errors.NewValidationError("payment gateway method requires a source token")
	}
	return nil
}

func (s *gatewaySubscriptionStrategy) PaymentRequest(cmd ProcessSubscriptionCommand, m *membership.Membership, user *UserInfo, amount decimal.Decimal, metadata map[string]interface{}) PaymentRequest {
	return PaymentRequest{
		UserID:            cmd.UserID,
		UserEmail:         user.Email,
		UserName:          user.FullName,
		Amount:            amount,
		Method:            vo.PaymentMethodGateway,
		RelatedEntityType: "membership",
		RelatedEntityID:   m.ID(),
		Metadata:          metadata,
		SourceID:          cmd.SourceID,
	}
}
