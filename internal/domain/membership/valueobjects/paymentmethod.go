package valueobjects

// PaymentMethod identifies the channel a subscription or reconsumption
// payment travels through.
type PaymentMethod string

const (
	// PaymentMethodVoucher is a proof-of-payment channel: the user uploads bank
	// transfer vouchers and an operator approves the request later.
	PaymentMethodVoucher PaymentMethod = "VOUCHER"
	// PaymentMethodPoints debits the user's loyalty point balance synchronously.
	PaymentMethodPoints PaymentMethod = "POINTS"
	// PaymentMethodGateway charges a tokenized card through the external
	// payment gateway.
	PaymentMethodGateway PaymentMethod = "PAYMENT_GATEWAY"
)

func (m PaymentMethod) String() string {
	return string(m)
}

var ValidPaymentMethods = map[PaymentMethod]bool{
	PaymentMethodVoucher: true,
	PaymentMethodPoints:  true,
	PaymentMethodGateway: true,
}
