package authz

import "testing"

func TestHasPermission(t *testing.T) {
	granted := []string{"notes:read", "notes:write"}

	tests := []struct {
		name     string
		required string
		want     bool
	}{
		{"present", "notes:read", true},
		{"absent", "admin:dashboard", false},
		{"empty string", "", false},
		{"prefix is not a match", "notes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(granted, tt.required); got != tt.want {
				t.Errorf("HasPermission(%q) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

// TestPurpose: Validates the OR/AND asymmetry on empty requirement sets:
// ANY of nothing is unsatisfiable, ALL of nothing is vacuously true.
// Scope: Unit Test
// Expected: HasAnyPermission(granted, []) == false, HasAllPermissions(granted, []) == true.
func TestQuantifiers_EmptyRequirementSets(t *testing.T) {
	granted := []string{"notes:read"}

	if HasAnyPermission(granted, nil) {
		t.Error("HasAnyPermission with empty requirements must be false")
	}
	if !HasAllPermissions(granted, nil) {
		t.Error("HasAllPermissions with empty requirements must be true")
	}
}

func TestHasAnyPermission(t *testing.T) {
	granted := []string{"notes:read", "content:read"}

	tests := []struct {
		name     string
		required []string
		want     bool
	}{
		{"one match", []string{"admin:logs", "notes:read"}, true},
		{"all match", []string{"notes:read", "content:read"}, true},
		{"no match", []string{"admin:logs", "users:write"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAnyPermission(granted, tt.required); got != tt.want {
				t.Errorf("HasAnyPermission(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

func TestHasAllPermissions(t *testing.T) {
	granted := []string{"notes:read", "notes:write", "content:read"}

	tests := []struct {
		name     string
		required []string
		want     bool
	}{
		{"subset", []string{"notes:read", "content:read"}, true},
		{"exact", []string{"notes:read", "notes:write", "content:read"}, true},
		{"one missing", []string{"notes:read", "admin:logs"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAllPermissions(granted, tt.required); got != tt.want {
				t.Errorf("HasAllPermissions(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

func TestResourceOf(t *testing.T) {
	tests := []struct {
		permission string
		want       string
	}{
		{"notes:read", "notes"},
		{"admin:dashboard", "admin"},
		{"a:b:c", "a"},
		{"malformed", "malformed"}, // no colon: whole string is the resource
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.permission, func(t *testing.T) {
			if got := ResourceOf(tt.permission); got != tt.want {
				t.Errorf("ResourceOf(%q) = %q, want %q", tt.permission, got, tt.want)
			}
		})
	}
}
