package valueobjects

// MembershipAction identifies the kind of state transition recorded in the
// membership history trail.
type MembershipAction string

const (
	ActionCreated            MembershipAction = "CREATED"
	ActionUpgrade            MembershipAction = "UPGRADE"
	ActionPurchase           MembershipAction = "PURCHASE"
	ActionRenewed            MembershipAction = "RENEWED"
	ActionCancelled          MembershipAction = "CANCELLED"
	ActionReactivated        MembershipAction = "REACTIVATED"
	ActionExpired            MembershipAction = "EXPIRED"
	ActionStatusChanged      MembershipAction = "STATUS_CHANGED"
	ActionPaymentReceived    MembershipAction = "PAYMENT_RECEIVED"
	ActionPlanChanged        MembershipAction = "PLAN_CHANGED"
	ActionReconsumptionAdded MembershipAction = "RECONSUMPTION_ADDED"
)

func (a MembershipAction) String() string {
	return string(a)
}

var ValidActions = map[MembershipAction]bool{
	ActionCreated:            true,
	ActionUpgrade:            true,
	ActionPurchase:           true,
	ActionRenewed:            true,
	ActionCancelled:          true,
	ActionReactivated:        true,
	ActionExpired:            true,
	ActionStatusChanged:      true,
	ActionPaymentReceived:    true,
	ActionPlanChanged:        true,
	ActionReconsumptionAdded: true,
}
