package membership

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Plan represents a membership plan catalog row. The catalog is read-only
// to everything in this package: plans are seeded by migrations and managed
// out of band.
type Plan struct {
	id                     uint
	name                   string
	price                  decimal.Decimal
	checkAmount            decimal.Decimal
	binaryPoints           int
	commissionPercentage   decimal.Decimal
	directCommissionAmount *decimal.Decimal
	displayOrder           int
	isActive               bool
	createdAt              time.Time
	updatedAt              time.Time
}

// NewPlan creates a new membership plan
func NewPlan(name string, price, checkAmount decimal.Decimal, binaryPoints int, commissionPercentage decimal.Decimal) (*Plan, error) {
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if price.IsNegative() || price.IsZero() {
		return nil, fmt.Errorf("plan price must be positive")
	}
	if checkAmount.IsNegative() {
		return nil, fmt.Errorf("check amount cannot be negative")
	}
	if binaryPoints < 0 {
		return nil, fmt.Errorf("binary points cannot be negative")
	}

	now := time.Now()
	return &Plan{
		name:                 name,
		price:                price,
		checkAmount:          checkAmount,
		binaryPoints:         binaryPoints,
		commissionPercentage: commissionPercentage,
		isActive:             true,
		createdAt:            now,
		updatedAt:            now,
	}, nil
}

// ReconstructPlan reconstructs a plan from persistence
func ReconstructPlan(
	id uint,
	name string,
	price, checkAmount decimal.Decimal,
	binaryPoints int,
	commissionPercentage decimal.Decimal,
	directCommissionAmount *decimal.Decimal,
	displayOrder int,
	isActive bool,
	createdAt, updatedAt time.Time,
) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}

	return &Plan{
		id:                     id,
		name:                   name,
		price:                  price,
		checkAmount:            checkAmount,
		binaryPoints:           binaryPoints,
		commissionPercentage:   commissionPercentage,
		directCommissionAmount: directCommissionAmount,
		displayOrder:           displayOrder,
		isActive:               isActive,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}, nil
}

func (p *Plan) ID() uint                         { return p.id }
func (p *Plan) Name() string                     { return p.name }
func (p *Plan) Price() decimal.Decimal           { return p.price }
func (p *Plan) CheckAmount() decimal.Decimal     { return p.checkAmount }
func (p *Plan) BinaryPoints() int                { return p.binaryPoints }
func (p *Plan) CommissionPercentage() decimal.Decimal  { return p.commissionPercentage }
func (p *Plan) DirectCommissionAmount() *decimal.Decimal { return p.directCommissionAmount }
func (p *Plan) DisplayOrder() int                { return p.displayOrder }
func (p *Plan) IsActive() bool                   { return p.isActive }
func (p *Plan) CreatedAt() time.Time             { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time             { return p.updatedAt }

// PointsRequirement returns the number of loyalty points a point-funded
// renewal of this plan costs.
func (p *Plan) PointsRequirement() int {
	return p.binaryPoints
}
