package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"nexus/internal/shared/constants"
)

// MembershipPlanModel is the persistence model for the plan catalog.
type MembershipPlanModel struct {
	ID                     uint            `gorm:"primarykey"`
	Name                   string          `gorm:"not null;size:100;uniqueIndex"`
	Price                  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CheckAmount            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	BinaryPoints           int             `gorm:"not null;default:0"`
	CommissionPercentage   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DirectCommissionAmount *decimal.Decimal `gorm:"type:decimal(10,2)"`
	DisplayOrder           int             `gorm:"not null;default:0;index"`
	IsActive               bool            `gorm:"not null;default:true;index"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
	DeletedAt              gorm.DeletedAt `gorm:"index"`
}

func (MembershipPlanModel) TableName() string {
	return constants.TablePlans
}
