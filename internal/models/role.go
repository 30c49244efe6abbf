package models

// Role discriminates the three identity variants.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// ParseRole converts a stored role string back to a Role, reporting whether
// it names a known variant.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(s), true
	default:
		return "", false
	}
}
