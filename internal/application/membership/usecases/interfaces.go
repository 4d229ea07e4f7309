// Package usecases contains the membership application services: pricing,
// the subscription and reconsumption sagas, admin approvals, and the daily
// cut job. External collaborators are consumed through the interfaces below
// and injected at construction.
package usecases

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	vo "nexus/internal/domain/membership/valueobjects"
)

// UserInfo is the identity collaborator's view of a user.
type UserInfo struct {
	ID       string
	Email    string
	FullName string
	Phone    string
}

// IdentityClient talks to the identity service.
type IdentityClient interface {
	GetDetailedInfo(ctx context.Context, userID string) (*UserInfo, error)
	FindByEmail(ctx context.Context, email string) (*UserInfo, error)
}

// PaymentProof is one uploaded proof-of-payment record on the voucher
// channel.
type PaymentProof struct {
	BankName             string          `json:"bank_name"`
	TransactionReference string          `json:"transaction_reference"`
	TransactionDate      string          `json:"transaction_date"`
	Amount               decimal.Decimal `json:"amount"`
	FileURL              string          `json:"file_url,omitempty"`
}

// PaymentRequest is the command sent to the payment collaborator.
type PaymentRequest struct {
	UserID            string
	UserEmail         string
	UserName          string
	Amount            decimal.Decimal
	Method            vo.PaymentMethod
	RelatedEntityType string
	RelatedEntityID   uint
	Metadata          map[string]interface{}
	Proofs            []PaymentProof
	SourceID          string
}

// PaymentReceipt is the payment collaborator's acknowledgement.
type PaymentReceipt struct {
	PaymentID string
	Status    string
}

// PaymentClient talks to the payment service. A transport error or timeout
// must be surfaced as an error so the saga can compensate.
type PaymentClient interface {
	Create(ctx context.Context, req PaymentRequest) (*PaymentReceipt, error)
}

// PointsBalance is the points collaborator's view of a user's balance.
type PointsBalance struct {
	AvailablePoints decimal.Decimal
}

// PointsClient talks to the loyalty points service. Point debits travel
// through PaymentClient like any other charge; this client only reads
// balances and triggers the weekly settlement.
type PointsClient interface {
	GetUserPoints(ctx context.Context, userID string) (*PointsBalance, error)
	ProcessWeeklyVolumes(ctx context.Context) error
}

// OrderPeriodQuery asks the order service for one user's volume over a
// validation window.
type OrderPeriodQuery struct {
	UserID        string
	StartDate     time.Time
	EndDate       time.Time
	MinimumAmount decimal.Decimal
}

// OrderSummary is the aggregated order volume for one user.
type OrderSummary struct {
	UserID             string
	TotalAmount        decimal.Decimal
	OrderCount         int
	MeetsMinimumAmount bool
}

// OrdersClient talks to the order aggregation service.
type OrdersClient interface {
	SummaryByPeriod(ctx context.Context, queries []OrderPeriodQuery) ([]OrderSummary, error)
}

// UserLocker serializes state-changing operations for a single user. The
// PENDING guard below is check-then-act; without the lock two concurrent
// requests for the same user could both pass the check.
type UserLocker interface {
	// Acquire blocks competing holders for the same user and returns a
	// release function. Acquisition failure aborts the operation.
	Acquire(ctx context.Context, userID string) (release func(), err error)
}

// Transactor runs a function inside a database transaction. Satisfied by
// db.TransactionManager.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier sends best-effort user notifications. Failures are logged, never
// propagated into the saga result.
type Notifier interface {
	MembershipApproved(ctx context.Context, email, name, planName string) error
	MembershipRejected(ctx context.Context, email, name, reason string) error
}
