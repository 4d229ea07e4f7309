package membership

import (
	"errors"
	"fmt"
)

var (
	ErrMembershipNotFound      = errors.New("membership not found")
	ErrPlanNotFound            = errors.New("membership plan not found")
	ErrPlanInactive            = errors.New("membership plan inactive")
	ErrReconsumptionNotFound   = errors.New("reconsumption not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNotAnUpgrade            = errors.New("membership has no recorded prior plan")
	ErrInvalidAmount           = errors.New("invalid amount")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
