package membership

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "nexus/internal/domain/membership/valueobjects"
)

// Membership represents the membership aggregate root: the billing record of
// a user's current plan enrollment and its validity window. Status moves only
// through the methods below; repositories persist whatever state the
// aggregate reaches.
type Membership struct {
	id                         uint
	userID                     string
	userEmail                  string
	userName                   string
	planID                     uint
	fromPlanID                 *uint
	status                     vo.MembershipStatus
	startDate                  time.Time
	endDate                    time.Time
	paidAmount                 decimal.Decimal
	paymentReference           *string
	minimumReconsumptionAmount decimal.Decimal
	autoRenewal                bool
	isPointLot                 bool
	useCard                    bool
	welcomeKitDelivered        bool
	metadata                   map[string]interface{}
	createdAt                  time.Time
	updatedAt                  time.Time
}

// NewMembership creates a new membership in PENDING state.
func NewMembership(userID, userEmail, userName string, planID uint, startDate, endDate time.Time, paidAmount, minimumReconsumptionAmount decimal.Decimal) (*Membership, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if userEmail == "" {
		return nil, fmt.Errorf("user email is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}
	if paidAmount.IsNegative() {
		return nil, fmt.Errorf("paid amount cannot be negative")
	}

	now := time.Now()
	return &Membership{
		userID:                     userID,
		userEmail:                  userEmail,
		userName:                   userName,
		planID:                     planID,
		status:                     vo.StatusPending,
		startDate:                  startDate,
		endDate:                    endDate,
		paidAmount:                 paidAmount,
		minimumReconsumptionAmount: minimumReconsumptionAmount,
		metadata:                   make(map[string]interface{}),
		createdAt:                  now,
		updatedAt:                  now,
	}, nil
}

// ReconstructMembership reconstructs a membership from persistence.
func ReconstructMembership(
	id uint,
	userID, userEmail, userName string,
	planID uint,
	fromPlanID *uint,
	status vo.MembershipStatus,
	startDate, endDate time.Time,
	paidAmount decimal.Decimal,
	paymentReference *string,
	minimumReconsumptionAmount decimal.Decimal,
	autoRenewal, isPointLot, useCard, welcomeKitDelivered bool,
	metadata map[string]interface{},
	createdAt, updatedAt time.Time,
) (*Membership, error) {
	if id == 0 {
		return nil, fmt.Errorf("membership ID cannot be zero")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid membership status: %s", status)
	}

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &Membership{
		id:                         id,
		userID:                     userID,
		userEmail:                  userEmail,
		userName:                   userName,
		planID:                     planID,
		fromPlanID:                 fromPlanID,
		status:                     status,
		startDate:                  startDate,
		endDate:                    endDate,
		paidAmount:                 paidAmount,
		paymentReference:           paymentReference,
		minimumReconsumptionAmount: minimumReconsumptionAmount,
		autoRenewal:                autoRenewal,
		isPointLot:                 isPointLot,
		useCard:                    useCard,
		welcomeKitDelivered:        welcomeKitDelivered,
		metadata:                   metadata,
		createdAt:                  createdAt,
		updatedAt:                  updatedAt,
	}, nil
}

func (m *Membership) ID() uint                  { return m.id }
func (m *Membership) UserID() string            { return m.userID }
func (m *Membership) UserEmail() string         { return m.userEmail }
func (m *Membership) UserName() string          { return m.userName }
func (m *Membership) PlanID() uint              { return m.planID }
func (m *Membership) FromPlanID() *uint         { return m.fromPlanID }
func (m *Membership) Status() vo.MembershipStatus { return m.status }
func (m *Membership) StartDate() time.Time      { return m.startDate }
func (m *Membership) EndDate() time.Time        { return m.endDate }
func (m *Membership) PaidAmount() decimal.Decimal { return m.paidAmount }
func (m *Membership) PaymentReference() *string { return m.paymentReference }
func (m *Membership) MinimumReconsumptionAmount() decimal.Decimal {
	return m.minimumReconsumptionAmount
}
func (m *Membership) AutoRenewal() bool         { return m.autoRenewal }
func (m *Membership) IsPointLot() bool          { return m.isPointLot }
func (m *Membership) UseCard() bool             { return m.useCard }
func (m *Membership) WelcomeKitDelivered() bool { return m.welcomeKitDelivered }
func (m *Membership) Metadata() map[string]interface{} { return m.metadata }
func (m *Membership) CreatedAt() time.Time      { return m.createdAt }
func (m *Membership) UpdatedAt() time.Time      { return m.updatedAt }

// SetID sets the membership ID (only for persistence layer use)
func (m *Membership) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("membership ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("membership ID cannot be zero")
	}
	m.id = id
	return nil
}

// Activate flips a pending membership to active, recording the payment
// reference when one is supplied.
func (m *Membership) Activate(paymentReference string) error {
	if m.status == vo.StatusActive {
		return nil
	}
	if !m.status.CanTransitionTo(vo.StatusActive) {
		return ErrInvalidTransition(m.status.String(), vo.StatusActive.String())
	}

	m.status = vo.StatusActive
	if paymentReference != "" {
		m.paymentReference = &paymentReference
	}
	m.updatedAt = time.Now()
	return nil
}

// Reject marks a pending membership as deleted. Only valid for new
// subscriptions awaiting approval; upgrades are reverted instead.
func (m *Membership) Reject() error {
	if m.status != vo.StatusPending {
		return fmt.Errorf("cannot reject membership with status %s", m.status)
	}
	m.status = vo.StatusDeleted
	m.updatedAt = time.Now()
	return nil
}

// UpgradeTo mutates the row in place for a plan upgrade: the current plan is
// recorded as fromPlanID so a rejection can restore it, the new plan takes
// its place, and the membership goes back to PENDING until approved.
func (m *Membership) UpgradeTo(newPlanID uint, deltaAmount decimal.Decimal) error {
	if newPlanID == 0 {
		return fmt.Errorf("new plan ID is required")
	}
	if newPlanID == m.planID {
		return fmt.Errorf("membership is already on plan %d", newPlanID)
	}
	if !m.status.CanTransitionTo(vo.StatusPending) {
		return ErrInvalidTransition(m.status.String(), vo.StatusPending.String())
	}
	if deltaAmount.IsNegative() || deltaAmount.IsZero() {
		return fmt.Errorf("upgrade amount must be positive")
	}

	prior := m.planID
	m.fromPlanID = &prior
	m.planID = newPlanID
	m.status = vo.StatusPending
	m.paidAmount = deltaAmount
	m.updatedAt = time.Now()
	return nil
}

// RevertUpgrade undoes an in-place upgrade: the prior plan is restored and
// the membership returns to ACTIVE. Used both by saga compensation when the
// payment leg fails and by admin rejection of the upgrade.
func (m *Membership) RevertUpgrade() error {
	if m.fromPlanID == nil {
		return ErrNotAnUpgrade
	}
	if m.status != vo.StatusPending {
		return fmt.Errorf("cannot revert upgrade with status %s", m.status)
	}

	m.planID = *m.fromPlanID
	m.fromPlanID = nil
	m.status = vo.StatusActive
	m.updatedAt = time.Now()
	return nil
}

// MarkExpired marks the membership as expired.
func (m *Membership) MarkExpired() error {
	if m.status == vo.StatusExpired {
		return nil
	}
	if !m.status.CanTransitionTo(vo.StatusExpired) {
		return ErrInvalidTransition(m.status.String(), vo.StatusExpired.String())
	}

	m.status = vo.StatusExpired
	m.updatedAt = time.Now()
	return nil
}

// ApplyRenewalWindow moves the membership onto a freshly calculated validity
// window and makes it active. Called after a successful reconsumption.
func (m *Membership) ApplyRenewalWindow(newStart, newEnd time.Time) error {
	if newEnd.Before(newStart) {
		return fmt.Errorf("end date must be after start date")
	}

	if m.status != vo.StatusActive {
		if !m.status.CanTransitionTo(vo.StatusActive) {
			return ErrInvalidTransition(m.status.String(), vo.StatusActive.String())
		}
		m.status = vo.StatusActive
	}

	m.startDate = newStart
	m.endDate = newEnd
	m.updatedAt = time.Now()
	return nil
}

// ChangeStatus applies an administrative status change, still subject to the
// transition table.
func (m *Membership) ChangeStatus(target vo.MembershipStatus) error {
	if !vo.ValidStatuses[target] {
		return fmt.Errorf("invalid membership status: %s", target)
	}
	if m.status == target {
		return nil
	}
	if !m.status.CanTransitionTo(target) {
		return ErrInvalidTransition(m.status.String(), target.String())
	}

	m.status = target
	m.updatedAt = time.Now()
	return nil
}

// UpdateEndDate overrides the validity window end, admin operation.
func (m *Membership) UpdateEndDate(endDate time.Time) error {
	if endDate.Before(m.startDate) {
		return fmt.Errorf("end date must be after start date")
	}
	m.endDate = endDate
	m.updatedAt = time.Now()
	return nil
}

// SetAutoRenewal updates the auto-renewal flag.
func (m *Membership) SetAutoRenewal(autoRenewal bool) {
	if m.autoRenewal == autoRenewal {
		return
	}
	m.autoRenewal = autoRenewal
	m.updatedAt = time.Now()
}

// MarkWelcomeKitDelivered flags the physical welcome kit as delivered.
func (m *Membership) MarkWelcomeKitDelivered(delivered bool) {
	m.welcomeKitDelivered = delivered
	m.updatedAt = time.Now()
}

// SetPointLot marks the membership as funded from a pre-purchased point lot.
func (m *Membership) SetPointLot(isPointLot bool) {
	m.isPointLot = isPointLot
	m.updatedAt = time.Now()
}

// SetUseCard records whether the member pays with a stored card.
func (m *Membership) SetUseCard(useCard bool) {
	m.useCard = useCard
	m.updatedAt = time.Now()
}

// SetMetadata replaces the metadata map.
func (m *Membership) SetMetadata(metadata map[string]interface{}) {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	m.metadata = metadata
	m.updatedAt = time.Now()
}

// IsExpiredAt reports whether the validity window has passed at the given
// date. Comparison is at calendar-date granularity.
func (m *Membership) IsExpiredAt(today time.Time) bool {
	return today.After(m.endDate)
}

// WithinRenewalWindow reports whether today falls inside the early-renewal
// window: within windowDays before endDate, or any time past it.
func (m *Membership) WithinRenewalWindow(today time.Time, windowDays int) bool {
	windowOpen := m.endDate.AddDate(0, 0, -windowDays)
	return !today.Before(windowOpen)
}

// WithinGracePeriod reports whether today is still inside the
// post-expiration grace period (today <= endDate + graceDays).
func (m *Membership) WithinGracePeriod(today time.Time, graceDays int) bool {
	graceEnd := m.endDate.AddDate(0, 0, graceDays)
	return !today.After(graceEnd)
}

// Validate performs domain-level validation
func (m *Membership) Validate() error {
	if m.userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if m.planID == 0 {
		return fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[m.status] {
		return fmt.Errorf("invalid status: %s", m.status)
	}
	if m.endDate.Before(m.startDate) {
		return fmt.Errorf("end date must be after start date")
	}
	return nil
}
