package auth

// Role is an admin privilege level. Roles form a total order:
// VIEWER < MANAGER < SUPER_ADMIN.
type Role string

const (
	// RoleViewer can read back-office data but not change it.
	RoleViewer Role = "VIEWER"
	// RoleManager can review applications and manage the fleet and inbox.
	RoleManager Role = "MANAGER"
	// RoleSuperAdmin can do everything, including admin account management.
	RoleSuperAdmin Role = "SUPER_ADMIN"

	// RoleAny is a middleware sentinel meaning "any authenticated caller";
	// it is never stored on an admin row.
	RoleAny Role = "ANY"
)

// roleRank maps each role to its position in the hierarchy.
var roleRank = map[Role]int{
	RoleViewer:     1,
	RoleManager:    2,
	RoleSuperAdmin: 3,
}

// Valid reports whether r is a storable admin role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Meets reports whether r satisfies a minimum-role requirement.
// RoleAny is satisfied by every valid role; an unknown role satisfies nothing.
func (r Role) Meets(min Role) bool {
	if !r.Valid() {
		return false
	}
	if min == RoleAny {
		return true
	}
	need, ok := roleRank[min]
	if !ok {
		return false
	}
	return roleRank[r] >= need
}
