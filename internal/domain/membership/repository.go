package membership

import (
	"context"
	"time"

	vo "nexus/internal/domain/membership/valueobjects"
)

type MembershipRepository interface {
	Create(ctx context.Context, membership *Membership) error
	GetByID(ctx context.Context, id uint) (*Membership, error)
	GetByUserID(ctx context.Context, userID string) (*Membership, error)
	GetPendingByUserID(ctx context.Context, userID string) (*Membership, error)
	Update(ctx context.Context, membership *Membership) error
	Delete(ctx context.Context, id uint) error

	// FindExpired returns memberships whose end date has passed as of the
	// given date, excluding terminal statuses. Backs the daily cut scan via
	// the (status, end_date) index.
	FindExpired(ctx context.Context, asOf time.Time) ([]*Membership, error)
	List(ctx context.Context, filter MembershipFilter) ([]*Membership, int64, error)
}

type MembershipFilter struct {
	UserID   *string
	PlanID   *uint
	Status   *vo.MembershipStatus
	Page     int
	PageSize int
}

// MembershipLookup is the narrow read-only view consumed by the renewal
// orchestrators, breaking the mutual dependency between the subscription
// and reconsumption services.
type MembershipLookup interface {
	GetByID(ctx context.Context, id uint) (*Membership, error)
	GetByUserID(ctx context.Context, userID string) (*Membership, error)
}

type PlanRepository interface {
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetAllActive(ctx context.Context) ([]*Plan, error)
}

type ReconsumptionRepository interface {
	Create(ctx context.Context, reconsumption *Reconsumption) error
	GetByID(ctx context.Context, id uint) (*Reconsumption, error)
	GetPendingByMembershipID(ctx context.Context, membershipID uint) (*Reconsumption, error)
	ListByMembershipID(ctx context.Context, membershipID uint) ([]*Reconsumption, error)
	Update(ctx context.Context, reconsumption *Reconsumption) error
	Delete(ctx context.Context, id uint) error
}

type HistoryRepository interface {
	Create(ctx context.Context, history *History) error
	ListByMembershipID(ctx context.Context, membershipID uint) ([]*History, error)
	// DeleteByMembershipID removes the audit rows of a membership that is
	// itself being compensated away. Only valid inside the same saga that
	// created them.
	DeleteByMembershipID(ctx context.Context, membershipID uint) error
}
