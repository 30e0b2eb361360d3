// Copyright 2026 The Reflect Access Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package authz

// -----------------------------------------------------------------------------
// Production catalog
// Lifecycle-static: built once at process start, never mutated.
// -----------------------------------------------------------------------------

// Production role ids.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ProductionPermissions is the full production permission catalog.
var ProductionPermissions = []Permission{
	// User management
	{ID: "users:read", Name: "View Users", Description: "View user profiles and information", Category: "User Management", Resource: "users", Action: "read"},
	{ID: "users:write", Name: "Edit Users", Description: "Edit user profiles and information", Category: "User Management", Resource: "users", Action: "write"},
	{ID: "users:delete", Name: "Delete Users", Description: "Delete user accounts", Category: "User Management", Resource: "users", Action: "delete"},
	{ID: "users:suspend", Name: "Suspend Users", Description: "Suspend or activate user accounts", Category: "User Management", Resource: "users", Action: "suspend"},

	// Notes
	{ID: "notes:read", Name: "View Notes", Description: "View personal notes", Category: "Notes", Resource: "notes", Action: "read"},
	{ID: "notes:write", Name: "Create/Edit Notes", Description: "Create and edit notes", Category: "Notes", Resource: "notes", Action: "write"},
	{ID: "notes:delete", Name: "Delete Notes", Description: "Delete notes", Category: "Notes", Resource: "notes", Action: "delete"},
	{ID: "notes:share", Name: "Share Notes", Description: "Share notes with other users", Category: "Notes", Resource: "notes", Action: "share"},
	{ID: "notes:export", Name: "Export Notes", Description: "Export notes to external formats", Category: "Notes", Resource: "notes", Action: "export"},

	// Administration
	{ID: "admin:dashboard", Name: "Admin Dashboard", Description: "Access admin dashboard", Category: "Administration", Resource: "admin", Action: "dashboard"},
	{ID: "admin:settings", Name: "System Settings", Description: "Modify system settings", Category: "Administration", Resource: "admin", Action: "settings"},
	{ID: "admin:logs", Name: "View Logs", Description: "View system and security logs", Category: "Administration", Resource: "admin", Action: "logs"},
	{ID: "admin:analytics", Name: "View Analytics", Description: "View system analytics and reports", Category: "Administration", Resource: "admin", Action: "analytics"},

	// Content
	{ID: "content:read", Name: "View Content", Description: "View blog posts and content", Category: "Content", Resource: "content", Action: "read"},
	{ID: "content:write", Name: "Create/Edit Content", Description: "Create and edit blog posts", Category: "Content", Resource: "content", Action: "write"},
	{ID: "content:publish", Name: "Publish Content", Description: "Publish and unpublish content", Category: "Content", Resource: "content", Action: "publish"},
	{ID: "content:moderate", Name: "Moderate Content", Description: "Moderate user-generated content", Category: "Content", Resource: "content", Action: "moderate"},

	// Support
	{ID: "support:read", Name: "View Support Tickets", Description: "View support tickets", Category: "Support", Resource: "support", Action: "read"},
	{ID: "support:respond", Name: "Respond to Tickets", Description: "Respond to support tickets", Category: "Support", Resource: "support", Action: "respond"},
	{ID: "support:escalate", Name: "Escalate Tickets", Description: "Escalate support tickets", Category: "Support", Resource: "support", Action: "escalate"},
}

// ProductionRoles maps the three production roles to their flat
// permission grants. Levels order roles by seniority; the catalog
// constructor enforces that grants grow with level.
var ProductionRoles = []Role{
	{
		ID:          RoleUser,
		Name:        "User",
		Description: "Standard user with basic permissions",
		Level:       1,
		Permissions: []string{"notes:read", "notes:write", "notes:delete", "notes:share", "notes:export", "content:read"},
	},
	{
		ID:          RoleModerator,
		Name:        "Moderator",
		Description: "Content moderator with additional permissions",
		Level:       2,
		Permissions: []string{
			"notes:read", "notes:write", "notes:delete", "notes:share", "notes:export",
			"content:read", "content:write", "content:moderate",
			"support:read", "support:respond",
			"users:read",
		},
	},
	{
		ID:          RoleAdmin,
		Name:        "Administrator",
		Description: "Full system administrator",
		Level:       3,
		Permissions: []string{
			"users:read", "users:write", "users:delete", "users:suspend",
			"notes:read", "notes:write", "notes:delete", "notes:share", "notes:export",
			"admin:dashboard", "admin:settings", "admin:logs", "admin:analytics",
			"content:read", "content:write", "content:publish", "content:moderate",
			"support:read", "support:respond", "support:escalate",
		},
	},
}

// NewProductionCatalog builds the validated production catalog.
func NewProductionCatalog() (*Catalog[Role, Permission], error) {
	for _, p := range ProductionPermissions {
		if p.ID != p.Resource+":"+p.Action {
			return nil, inconsistentPermission(p.ID, p.Resource, p.Action)
		}
	}
	return NewCatalog(ProductionRoles, ProductionPermissions)
}
