// Package authorization defines the role model carried in access
// tokens and the route guards built on it.
package authorization

// UserRole is the coarse role claim issued by the identity service.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsAdmin() bool { return r == RoleAdmin }

// ParseUserRole maps a raw claim value to a role. Unknown values
// degrade to the regular user role rather than failing the request.
func ParseUserRole(s string) UserRole {
	if r := UserRole(s); r == RoleAdmin || r == RoleUser {
		return r
	}
	return RoleUser
}

// CanAccessMembership reports whether a caller may read or act on a
// membership owned by ownerID. Admins see everything; members only
// their own record.
func CanAccessMembership(callerID string, callerRole UserRole, ownerID string) bool {
	return callerRole.IsAdmin() || callerID == ownerID
}
