package models

import (
	"time"

	"gorm.io/datatypes"

	"nexus/internal/shared/constants"
)

// MembershipHistoryModel is the append-only audit trail of a membership.
// Rows are only ever deleted as saga compensation.
type MembershipHistoryModel struct {
	ID           uint   `gorm:"primarykey"`
	MembershipID uint   `gorm:"not null;index:idx_membership_history"`
	Action       string `gorm:"not null;size:30"`
	Notes        string `gorm:"size:500"`
	Metadata     datatypes.JSON
	CreatedAt    time.Time
}

func (MembershipHistoryModel) TableName() string {
	return constants.TableHistory
}
