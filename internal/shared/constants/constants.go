package constants

const (
	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Context keys
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"

	// Database table names
	TableMemberships    = "memberships"
	TablePlans          = "membership_plans"
	TableReconsumptions = "membership_reconsumptions"
	TableHistory        = "membership_history"
)
