package auth

import "testing"

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleViewer, true},
		{RoleManager, true},
		{RoleSuperAdmin, true},
		{RoleAny, false},
		{Role(""), false},
		{Role("viewer"), false},
		{Role("ADMIN"), false},
	}

	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.want {
			t.Errorf("Role(%q).Valid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestRoleMeets(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		// Every valid role satisfies RoleAny
		{RoleViewer, RoleAny, true},
		{RoleManager, RoleAny, true},
		{RoleSuperAdmin, RoleAny, true},

		// VIEWER
		{RoleViewer, RoleViewer, true},
		{RoleViewer, RoleManager, false},
		{RoleViewer, RoleSuperAdmin, false},

		// MANAGER
		{RoleManager, RoleViewer, true},
		{RoleManager, RoleManager, true},
		{RoleManager, RoleSuperAdmin, false},

		// SUPER_ADMIN
		{RoleSuperAdmin, RoleViewer, true},
		{RoleSuperAdmin, RoleManager, true},
		{RoleSuperAdmin, RoleSuperAdmin, true},

		// Unknown roles satisfy nothing, including RoleAny
		{Role("GUEST"), RoleAny, false},
		{Role("GUEST"), RoleViewer, false},
		{Role(""), RoleAny, false},

		// Unknown minimums are never met
		{RoleSuperAdmin, Role("GOD"), false},
	}

	for _, tt := range tests {
		if got := tt.role.Meets(tt.min); got != tt.want {
			t.Errorf("Role(%q).Meets(%q) = %v, want %v", tt.role, tt.min, got, tt.want)
		}
	}
}
