package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"nexus/internal/shared/constants"
)

// MembershipModel is the persistence model for memberships, the
// anti-corruption layer between domain and database.
type MembershipModel struct {
	ID                         uint            `gorm:"primarykey"`
	UserID                     string          `gorm:"not null;size:36;index:idx_user_status,priority:1"`
	UserEmail                  string          `gorm:"not null;size:255"`
	UserName                   string          `gorm:"size:255"`
	PlanID                     uint            `gorm:"not null;index:idx_plan_membership"`
	FromPlanID                 *uint           `gorm:"comment:prior plan while an upgrade is pending"`
	Status                     string          `gorm:"not null;size:20;index:idx_user_status,priority:2;index:idx_status_end_date,priority:1"`
	StartDate                  time.Time       `gorm:"not null"`
	EndDate                    time.Time       `gorm:"not null;index:idx_status_end_date,priority:2"`
	PaidAmount                 decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentReference           *string         `gorm:"size:100"`
	MinimumReconsumptionAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AutoRenewal                bool            `gorm:"default:false"`
	IsPointLot                 bool            `gorm:"default:false"`
	UseCard                    bool            `gorm:"default:false"`
	WelcomeKitDelivered        bool            `gorm:"default:false"`
	Metadata                   datatypes.JSON
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
	DeletedAt                  gorm.DeletedAt `gorm:"index"`
}

func (MembershipModel) TableName() string {
	return constants.TableMemberships
}
