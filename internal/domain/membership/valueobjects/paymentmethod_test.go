package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentMethodWireValues(t *testing.T) {
	assert.Equal(t, "VOUCHER", PaymentMethodVoucher.String())
	assert.Equal(t, "POINTS", PaymentMethodPoints.String())
	assert.Equal(t, "PAYMENT_GATEWAY", PaymentMethodGateway.String())

	for _, m := range []PaymentMethod{PaymentMethodVoucher, PaymentMethodPoints, PaymentMethodGateway} {
		assert.True(t, ValidPaymentMethods[m], m.String())
	}
	assert.False(t, ValidPaymentMethods[PaymentMethod("CASH")])
}

func TestReconsumptionStatusWireValues(t *testing.T) {
	assert.Equal(t, "PENDING", ReconsumptionStatusPending.String())
	assert.Equal(t, "ACTIVE", ReconsumptionStatusActive.String())
	assert.Equal(t, "CANCELLED", ReconsumptionStatusCancelled.String())

	for _, s := range []ReconsumptionStatus{ReconsumptionStatusPending, ReconsumptionStatusActive, ReconsumptionStatusCancelled} {
		assert.True(t, ValidReconsumptionStatuses[s], s.String())
	}
}
