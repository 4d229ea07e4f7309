package valueobjects

type ReconsumptionStatus string

const (
	ReconsumptionStatusPending   ReconsumptionStatus = "PENDING"
	ReconsumptionStatusActive    ReconsumptionStatus = "ACTIVE"
	ReconsumptionStatusCancelled ReconsumptionStatus = "CANCELLED"
)

func (s ReconsumptionStatus) String() string {
	return string(s)
}

func (s ReconsumptionStatus) CanTransitionTo(target ReconsumptionStatus) bool {
	transitions := map[ReconsumptionStatus][]ReconsumptionStatus{
		ReconsumptionStatusPending:   {ReconsumptionStatusActive, ReconsumptionStatusCancelled},
		ReconsumptionStatusActive:    {},
		ReconsumptionStatusCancelled: {},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

var ValidReconsumptionStatuses = map[ReconsumptionStatus]bool{
	ReconsumptionStatusPending:   true,
	ReconsumptionStatusActive:    true,
	ReconsumptionStatusCancelled: true,
}
