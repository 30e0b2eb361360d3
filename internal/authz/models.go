package authz

import "errors"

// Catalog construction errors
var (
	ErrDuplicateRole        = errors.New("duplicate role id")
	ErrDuplicatePermission  = errors.New("duplicate permission id")
	ErrUnknownPermissionRef = errors.New("role references unknown permission")
	ErrLevelNotMonotonic    = errors.New("permission sets are not monotonic in role level")
	ErrInconsistentID       = errors.New("permission id does not match resource and action")
)

// Permission is an immutable catalog entry. ID is a two-part
// "<resource>:<action>" key; Resource and Action are its decomposition
// and must stay consistent with it.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
}

// PermissionID implements PermissionEntry.
func (p Permission) PermissionID() string { return p.ID }

// Role is an immutable catalog entry granting a flat set of permission
// ids. Level is a coarse seniority ordering: a higher-level role must
// grant a superset of every lower-level role's permissions.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Level       int      `json:"level"`
	Permissions []string `json:"permissions"`
}

// RoleID implements RoleEntry.
func (r Role) RoleID() string { return r.ID }

// RoleLevel implements RoleEntry.
func (r Role) RoleLevel() int { return r.Level }

// Grants implements RoleEntry.
func (r Role) Grants() []string { return r.Permissions }

// PreviewLevel grades preview permissions by the plan tier they belong to.
type PreviewLevel string

const (
	PreviewLevelFree       PreviewLevel = "free"
	PreviewLevelTrial      PreviewLevel = "trial"
	PreviewLevelPro        PreviewLevel = "pro"
	PreviewLevelEnterprise PreviewLevel = "enterprise"
)

// PreviewPermission is a catalog entry for the trial/preview surface.
// Unlike production permissions it carries presentation metadata: which
// tier unlocks it, whether a locked demo exists, and usage limitations
// that apply in preview mode.
type PreviewPermission struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Category      string       `json:"category"`
	PreviewLevel  PreviewLevel `json:"previewLevel"`
	DemoAvailable bool         `json:"demoAvailable"`
	Limitations   []string     `json:"limitations,omitempty"`
}

// PermissionID implements PermissionEntry.
func (p PreviewPermission) PermissionID() string { return p.ID }

// PreviewRole is a catalog entry for the trial/preview surface.
type PreviewRole struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Level       int      `json:"level"`
	TrialDays   int      `json:"trialDays,omitempty"`
	Permissions []string `json:"permissions"`
	Features    []string `json:"features"`
	Limitations []string `json:"limitations"`
}

// RoleID implements RoleEntry.
func (r PreviewRole) RoleID() string { return r.ID }

// RoleLevel implements RoleEntry.
func (r PreviewRole) RoleLevel() int { return r.Level }

// Grants implements RoleEntry.
func (r PreviewRole) Grants() []string { return r.Permissions }
