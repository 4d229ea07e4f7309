package membership

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "nexus/internal/domain/membership/valueobjects"
)

// Reconsumption is one renewal-payment cycle extending an existing
// membership's validity window. At most one PENDING row may exist per
// membership at any instant.
type Reconsumption struct {
	id               uint
	membershipID     uint
	amount           decimal.Decimal
	status           vo.ReconsumptionStatus
	periodDate       time.Time
	paymentReference *string
	paymentDetails   map[string]interface{}
	notes            string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewReconsumption creates a renewal cycle awaiting approval (deferred
// confirmation mode, used for proof-of-payment channels).
func NewReconsumption(membershipID uint, amount decimal.Decimal, periodDate time.Time) (*Reconsumption, error) {
	return newReconsumption(membershipID, amount, periodDate, vo.ReconsumptionStatusPending)
}

// NewActiveReconsumption creates a renewal cycle that is confirmed
// synchronously (immediate mode, used for the points and free paths).
func NewActiveReconsumption(membershipID uint, amount decimal.Decimal, periodDate time.Time) (*Reconsumption, error) {
	return newReconsumption(membershipID, amount, periodDate, vo.ReconsumptionStatusActive)
}

func newReconsumption(membershipID uint, amount decimal.Decimal, periodDate time.Time, status vo.ReconsumptionStatus) (*Reconsumption, error) {
	if membershipID == 0 {
		return nil, fmt.Errorf("membership ID cannot be zero")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, fmt.Errorf("%w: reconsumption amount must be positive", ErrInvalidAmount)
	}
	if periodDate.IsZero() {
		return nil, fmt.Errorf("period date is required")
	}

	now := time.Now()
	return &Reconsumption{
		membershipID:   membershipID,
		amount:         amount,
		status:         status,
		periodDate:     periodDate,
		paymentDetails: make(map[string]interface{}),
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructReconsumption reconstructs a reconsumption from persistence.
func ReconstructReconsumption(
	id uint,
	membershipID uint,
	amount decimal.Decimal,
	status vo.ReconsumptionStatus,
	periodDate time.Time,
	paymentReference *string,
	paymentDetails map[string]interface{},
	notes string,
	createdAt, updatedAt time.Time,
) (*Reconsumption, error) {
	if id == 0 {
		return nil, fmt.Errorf("reconsumption ID cannot be zero")
	}
	if membershipID == 0 {
		return nil, fmt.Errorf("membership ID cannot be zero")
	}
	if !vo.ValidReconsumptionStatuses[status] {
		return nil, fmt.Errorf("invalid reconsumption status: %s", status)
	}

	if paymentDetails == nil {
		paymentDetails = make(map[string]interface{})
	}

	return &Reconsumption{
		id:               id,
		membershipID:     membershipID,
		amount:           amount,
		status:           status,
		periodDate:       periodDate,
		paymentReference: paymentReference,
		paymentDetails:   paymentDetails,
		notes:            notes,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (r *Reconsumption) ID() uint                            { return r.id }
func (r *Reconsumption) MembershipID() uint                  { return r.membershipID }
func (r *Reconsumption) Amount() decimal.Decimal             { return r.amount }
func (r *Reconsumption) Status() vo.ReconsumptionStatus      { return r.status }
func (r *Reconsumption) PeriodDate() time.Time               { return r.periodDate }
func (r *Reconsumption) PaymentReference() *string           { return r.paymentReference }
func (r *Reconsumption) PaymentDetails() map[string]interface{} { return r.paymentDetails }
func (r *Reconsumption) Notes() string                       { return r.notes }
func (r *Reconsumption) CreatedAt() time.Time                { return r.createdAt }
func (r *Reconsumption) UpdatedAt() time.Time                { return r.updatedAt }

// SetID sets the reconsumption ID (only for persistence layer use)
func (r *Reconsumption) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("reconsumption ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("reconsumption ID cannot be zero")
	}
	r.id = id
	return nil
}

// Activate confirms a pending renewal cycle.
func (r *Reconsumption) Activate(paymentReference string) error {
	if r.status == vo.ReconsumptionStatusActive {
		return nil
	}
	if !r.status.CanTransitionTo(vo.ReconsumptionStatusActive) {
		return ErrInvalidTransition(r.status.String(), vo.ReconsumptionStatusActive.String())
	}

	r.status = vo.ReconsumptionStatusActive
	if paymentReference != "" {
		r.paymentReference = &paymentReference
	}
	r.updatedAt = time.Now()
	return nil
}

// Cancel rejects a pending renewal cycle. The membership's dates are left
// untouched.
func (r *Reconsumption) Cancel(reason string) error {
	if !r.status.CanTransitionTo(vo.ReconsumptionStatusCancelled) {
		return ErrInvalidTransition(r.status.String(), vo.ReconsumptionStatusCancelled.String())
	}

	r.status = vo.ReconsumptionStatusCancelled
	if reason != "" {
		r.notes = reason
	}
	r.updatedAt = time.Now()
	return nil
}

// SetPaymentReference records the collaborator's payment id once the remote
// call has succeeded.
func (r *Reconsumption) SetPaymentReference(reference string) {
	if reference == "" {
		return
	}
	r.paymentReference = &reference
	r.updatedAt = time.Now()
}

// SetPaymentDetails stores the channel payload (voucher records, point
// debit info) alongside the row.
func (r *Reconsumption) SetPaymentDetails(details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	r.paymentDetails = details
	r.updatedAt = time.Now()
}

// SetNotes attaches free-form operator notes.
func (r *Reconsumption) SetNotes(notes string) {
	r.notes = notes
	r.updatedAt = time.Now()
}
