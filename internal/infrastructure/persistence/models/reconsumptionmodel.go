package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"nexus/internal/shared/constants"
)

// ReconsumptionModel is the persistence model for monthly renewal cycles.
type ReconsumptionModel struct {
	ID               uint            `gorm:"primarykey"`
	MembershipID     uint            `gorm:"not null;index:idx_membership_status,priority:1"`
	Amount           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status           string          `gorm:"not null;size:20;index:idx_membership_status,priority:2"`
	PeriodDate       time.Time       `gorm:"not null"`
	PaymentReference *string         `gorm:"size:100"`
	PaymentDetails   datatypes.JSON
	Notes            string `gorm:"size:500"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (ReconsumptionModel) TableName() string {
	return constants.TableReconsumptions
}
