package valueobjects

type MembershipStatus string

const (
	StatusPending   MembershipStatus = "PENDING"
	StatusActive    MembershipStatus = "ACTIVE"
	StatusInactive  MembershipStatus = "INACTIVE"
	StatusExpired   MembershipStatus = "EXPIRED"
	StatusDeleted   MembershipStatus = "DELETED"
	StatusSuspended MembershipStatus = "SUSPENDED"
)

func (s MembershipStatus) String() string {
	return string(s)
}

// CanReconsume reports whether a membership in this status may start
// a renewal cycle at all. PENDING memberships must first be approved.
func (s MembershipStatus) CanReconsume() bool {
	return s != StatusPending && s != StatusDeleted
}

func (s MembershipStatus) CanTransitionTo(target MembershipStatus) bool {
	transitions := map[MembershipStatus][]MembershipStatus{
		StatusPending:   {StatusActive, StatusDeleted},
		StatusActive:    {StatusPending, StatusInactive, StatusExpired, StatusSuspended},
		StatusInactive:  {StatusActive, StatusExpired, StatusDeleted},
		StatusExpired:   {StatusActive, StatusDeleted},
		StatusSuspended: {StatusActive, StatusExpired, StatusDeleted},
		StatusDeleted:   {},
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

var ValidStatuses = map[MembershipStatus]bool{
	StatusPending:   true,
	StatusActive:    true,
	StatusInactive:  true,
	StatusExpired:   true,
	StatusDeleted:   true,
	StatusSuspended: true,
}
