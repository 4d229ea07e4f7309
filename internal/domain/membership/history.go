package membership

import (
	"fmt"
	"time"

	vo "nexus/internal/domain/membership/valueobjects"
)

// History is an append-only audit record of a membership state transition.
// Rows are never mutated after creation; the only deletion permitted is saga
// compensation of a row written in the same failed call.
type History struct {
	id           uint
	membershipID uint
	action       vo.MembershipAction
	notes        string
	metadata     map[string]interface{}
	createdAt    time.Time
}

// NewHistory creates a new history entry for a membership transition.
func NewHistory(membershipID uint, action vo.MembershipAction, notes string) (*History, error) {
	if membershipID == 0 {
		return nil, fmt.Errorf("membership ID cannot be zero")
	}
	if !vo.ValidActions[action] {
		return nil, fmt.Errorf("invalid membership action: %s", action)
	}

	return &History{
		membershipID: membershipID,
		action:       action,
		notes:        notes,
		metadata:     make(map[string]interface{}),
		createdAt:    time.Now(),
	}, nil
}

// ReconstructHistory reconstructs a history entry from persistence.
func ReconstructHistory(
	id uint,
	membershipID uint,
	action vo.MembershipAction,
	notes string,
	metadata map[string]interface{},
	createdAt time.Time,
) (*History, error) {
	if id == 0 {
		return nil, fmt.Errorf("history ID cannot be zero")
	}
	if membershipID == 0 {
		return nil, fmt.Errorf("membership ID cannot be zero")
	}
	if !vo.ValidActions[action] {
		return nil, fmt.Errorf("invalid membership action: %s", action)
	}

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &History{
		id:           id,
		membershipID: membershipID,
		action:       action,
		notes:        notes,
		metadata:     metadata,
		createdAt:    createdAt,
	}, nil
}

func (h *History) ID() uint                          { return h.id }
func (h *History) MembershipID() uint                { return h.membershipID }
func (h *History) Action() vo.MembershipAction       { return h.action }
func (h *History) Notes() string                     { return h.notes }
func (h *History) Metadata() map[string]interface{}  { return h.metadata }
func (h *History) CreatedAt() time.Time              { return h.createdAt }

// SetID sets the history ID (only for persistence layer use)
func (h *History) SetID(id uint) error {
	if h.id != 0 {
		return fmt.Errorf("history ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("history ID cannot be zero")
	}
	h.id = id
	return nil
}

// SetMetadata attaches structured context to the entry before it is
// persisted.
func (h *History) SetMetadata(metadata map[string]interface{}) {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	h.metadata = metadata
}
