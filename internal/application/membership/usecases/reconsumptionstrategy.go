package usecases

import (
	"fmt"

	"github.com/shopspring/decimal"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/errors"
)

// voucherReconsumptionStrategy defers confirmation: the row stays pending
// until an administrator reviews the uploaded proofs.
type voucherReconsumptionStrategy struct{}

func (s *voucherReconsumptionStrategy) Method() vo.PaymentMethod { return vo.PaymentMethodVoucher }

func (s *voucherReconsumptionStrategy) Immediate() bool { return false }

func (s *voucherReconsumptionStrategy) ValidatePayload(cmd CreateReconsumptionCommand, m *membership.Membership) error {
	if len(cmd.Payments) == 0 {
		return errors.NewValidationError("at least one payment detail is required")
	}
	total := decimal.Zero
	for i, p := range cmd.Payments {
		if !p.Amount.IsPositive() {
			return errors.NewValidationError("payment amount must be positive",
				fmt.Sprintf("payment %d", i))
		}
		total = total.Add(p.Amount)
	}
	expected := cmd.Amount
	if expected.IsZero() {
		expected = m.MinimumReconsumptionAmount()
	}
	if !total.Equal(expected) {
		return errors.NewValidationError("payment total does not match reconsumption amount",
			fmt.Sprintf("expected %s, got %s", expected, total))
	}
	return nil
}

func (s *voucherReconsumptionStrategy) PaymentRequest(cmd CreateReconsumptionCommand, r *membership.Reconsumption, m *membership.Membership, user *UserInfo, amount decimal.Decimal) PaymentRequest {
	return PaymentRequest{
		UserID:            user.ID,
		UserEmail:         user.Email,
		UserName:          user.FullName,
		Amount:            amount,
		Method:            vo.PaymentMethodVoucher,
		RelatedEntityType: "membership_reconsumption",
		RelatedEntityID:   r.ID(),
		Proofs:            cmd.Payments,
		Metadata: map[string]interface{}{
			"membership_id": m.ID(),
			"period_date":   r.PeriodDate().Format("2006-01-02"),
		},
	}
}

// pointsReconsumptionStrategy confirms immediately: the payment collaborator
// debits the member's point balance (or records a free renewal) and the
// membership window is extended in the same call.
type pointsReconsumptionStrategy struct{}

func (s *pointsReconsumptionStrategy) Method() vo.PaymentMethod { return vo.PaymentMethodPoints }

func (s *pointsReconsumptionStrategy) Immediate() bool { return true }

func (s *pointsReconsumptionStrategy) ValidatePayload(cmd CreateReconsumptionCommand, m *membership.Membership) error {
	return nil
}

func (s *pointsReconsumptionStrategy) PaymentRequest(cmd CreateReconsumptionCommand, r *membership.Reconsumption, m *membership.Membership, user *UserInfo, amount decimal.Decimal) PaymentRequest {
	metadata := map[string]interface{}{
		"membership_id": m.ID(),
		"period_date":   r.PeriodDate().Format("2006-01-02"),
	}
	if cmd.FreeRenewal {
		metadata["free_renewal"] = true
	}
	return PaymentRequest{
		UserID:            user.ID,
		UserEmail:         user.Email,
		UserName:          user.FullName,
		Amount:            amount,
		Method:            vo.PaymentMethodPoints,
		RelatedEntityType: "membership_reconsumption",
		RelatedEntityID:   r.ID(),
		Metadata:          metadata,
	}
}

// gatewayReconsumptionStrategy defers confirmation on a gateway charge
// reference; the gateway webhook flow approves the row later.
type gatewayReconsumptionStrategy struct{}

func (s *gatewayReconsumptionStrategy) Method() vo.PaymentMethod {
	return vo.PaymentMethodGateway
}

func (s *gatewayReconsumptionStrategy) Immediate() bool { return false }

func (s *gatewayReconsumptionStrategy) ValidatePayload(cmd CreateReconsumptionCommand, m *membership.Membership) error {
	if cmd.SourceID == "" {
		return errors.NewValidationError("source_id is required for gateway payments")
	}
	return nil
}

func (s *gatewayReconsumptionStrategy) PaymentRequest(cmd CreateReconsumptionCommand, r *membership.Reconsumption, m *membership.Membership, user *UserInfo, amount decimal.Decimal) PaymentRequest {
	return PaymentRequest{
		UserID:            user.ID,
		UserEmail:         user.Email,
		UserName:          user.FullName,
		Amount:            amount,
		Method:            vo.PaymentMethodGateway,
		RelatedEntityType: "membership_reconsumption",
		RelatedEntityID:   r.ID(),
		SourceID:          cmd.SourceID,
		Metadata: map[string]interface{}{
			"membership_id": m.ID(),
			"period_date":   r.PeriodDate().Format("2006-01-02"),
		},
	}
}
