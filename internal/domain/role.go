// Package domain holds the marketplace entities and the enumerations that
// drive its approval workflows. It has no knowledge of HTTP or of the store.
package domain

import "strings"

// Role is the tagged enumeration of principals.
type Role string

const (
	RoleTourist    Role = "Tourist"
	RoleHost       Role = "Host"
	RoleLocalGuide Role = "Local Guide"
	// RoleAdmin only ever appears inside tokens minted by the admin login flow.
	RoleAdmin Role = "Admin"
)

// ParseRole maps client input onto a Role. Matching ignores case, spaces,
// dashes and underscores so "LocalGuide", "local guide" and "Local_Guide"
// are the same role.
func ParseRole(raw string) (Role, bool) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch key {
	case "tourist":
		return RoleTourist, true
	case "host":
		return RoleHost, true
	case "localguide":
		return RoleLocalGuide, true
	case "admin":
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Storable reports whether users with this role may exist in the users collection.
func (r Role) Storable() bool {
	return r == RoleTourist || r == RoleHost || r == RoleLocalGuide
}

// ApprovedOnSignup reports whether a fresh account is usable without moderation.
func (r Role) ApprovedOnSignup() bool {
	return r == RoleTourist
}

func (r Role) String() string { return string(r) }
