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
// Preview catalog
// A parallel registry for the marketing/trial surface. Structurally
// identical to the production catalog, never cross-referenced with it.
// -----------------------------------------------------------------------------

// Preview role ids.
const (
	RoleVisitor    = "visitor"
	RolePreview    = "preview"
	RoleTrial      = "trial"
	RoleProPreview = "pro_preview"
)

// PreviewPermissions is the full preview permission catalog.
var PreviewPermissions = []PreviewPermission{
	// Note-taking
	{ID: "notes:create", Name: "Create Notes", Description: "Create new notes and documents", Category: "Note-Taking", PreviewLevel: PreviewLevelFree, DemoAvailable: true, Limitations: []string{"Maximum 10 notes in preview"}},
	{ID: "notes:edit", Name: "Edit Notes", Description: "Edit existing notes", Category: "Note-Taking", PreviewLevel: PreviewLevelFree, DemoAvailable: true},
	{ID: "notes:delete", Name: "Delete Notes", Description: "Delete notes permanently", Category: "Note-Taking", PreviewLevel: PreviewLevelFree, DemoAvailable: true},
	{ID: "notes:organize", Name: "Organize Notes", Description: "Create folders and organize notes", Category: "Note-Taking", PreviewLevel: PreviewLevelTrial, DemoAvailable: true, Limitations: []string{"Maximum 3 folders in preview"}},

	// AI features
	{ID: "ai:chat", Name: "AI Chat Assistant", Description: "Chat with AI about your notes", Category: "AI Features", PreviewLevel: PreviewLevelTrial, DemoAvailable: true, Limitations: []string{"5 AI interactions per day in preview"}},
	{ID: "ai:summarize", Name: "AI Summarization", Description: "Generate AI summaries of notes", Category: "AI Features", PreviewLevel: PreviewLevelPro, DemoAvailable: true, Limitations: []string{"2 summaries per day in preview"}},
	{ID: "ai:connections", Name: "AI Note Connections", Description: "AI-powered note linking and connections", Category: "AI Features", PreviewLevel: PreviewLevelPro, DemoAvailable: false},
	{ID: "ai:insights", Name: "AI Insights", Description: "Get AI-powered insights from your notes", Category: "AI Features", PreviewLevel: PreviewLevelEnterprise, DemoAvailable: false},

	// Search
	{ID: "search:basic", Name: "Basic Search", Description: "Search through your notes", Category: "Search", PreviewLevel: PreviewLevelFree, DemoAvailable: true},
	{ID: "search:semantic", Name: "Semantic Search", Description: "AI-powered semantic search", Category: "Search", PreviewLevel: PreviewLevelPro, DemoAvailable: true, Limitations: []string{"Limited to 10 search results in preview"}},
	{ID: "search:filters", Name: "Advanced Filters", Description: "Filter notes by date, tags, and more", Category: "Search", PreviewLevel: PreviewLevelTrial, DemoAvailable: true},

	// Collaboration
	{ID: "share:public", Name: "Public Sharing", Description: "Share notes publicly with a link", Category: "Collaboration", PreviewLevel: PreviewLevelTrial, DemoAvailable: true, Limitations: []string{"Shared notes expire after 24 hours in preview"}},
	{ID: "share:collaborate", Name: "Real-time Collaboration", Description: "Collaborate on notes in real-time", Category: "Collaboration", PreviewLevel: PreviewLevelPro, DemoAvailable: false},
	{ID: "share:comments", Name: "Comments & Feedback", Description: "Add comments and feedback to shared notes", Category: "Collaboration", PreviewLevel: PreviewLevelPro, DemoAvailable: false},

	// Export & integrations
	{ID: "export:basic", Name: "Basic Export", Description: "Export notes as text or markdown", Category: "Export", PreviewLevel: PreviewLevelFree, DemoAvailable: true},
	{ID: "export:advanced", Name: "Advanced Export", Description: "Export to PDF, Word, and other formats", Category: "Export", PreviewLevel: PreviewLevelPro, DemoAvailable: true, Limitations: []string{"Watermarked exports in preview"}},
	{ID: "integrations:basic", Name: "Basic Integrations", Description: "Connect with popular apps", Category: "Integrations", PreviewLevel: PreviewLevelTrial, DemoAvailable: false},
	{ID: "integrations:advanced", Name: "Advanced Integrations", Description: "API access and custom integrations", Category: "Integrations", PreviewLevel: PreviewLevelEnterprise, DemoAvailable: false},
}

// PreviewRoles maps the four preview roles to their grants, features,
// and limitations.
var PreviewRoles = []PreviewRole{
	{
		ID:          RoleVisitor,
		Name:        "Visitor",
		Description: "Browse and explore Reflect features",
		Level:       0,
		Permissions: []string{},
		Features:    []string{"View marketing pages", "Read documentation", "Watch demo videos"},
		Limitations: []string{"Cannot create account", "No note-taking access", "Limited feature previews"},
	},
	{
		ID:          RolePreview,
		Name:        "Preview User",
		Description: "Try basic features with limitations",
		Level:       1,
		Permissions: []string{"notes:create", "notes:edit", "notes:delete", "search:basic", "export:basic"},
		Features:    []string{"Create up to 10 notes", "Basic note editing", "Simple search", "Text export"},
		Limitations: []string{"Maximum 10 notes", "No AI features", "No collaboration", "Basic export only"},
	},
	{
		ID:          RoleTrial,
		Name:        "Trial User",
		Description: "14-day trial with most features",
		Level:       2,
		TrialDays:   14,
		Permissions: []string{
			"notes:create", "notes:edit", "notes:delete", "notes:organize",
			"ai:chat",
			"search:basic", "search:filters",
			"share:public",
			"export:basic",
			"integrations:basic",
		},
		Features: []string{
			"Unlimited notes", "AI chat assistant (5/day)", "Note organization",
			"Public sharing", "Advanced search filters",
		},
		Limitations: []string{
			"14-day time limit", "Limited AI interactions",
			"No real-time collaboration", "Basic integrations only",
		},
	},
	{
		ID:          RoleProPreview,
		Name:        "Pro Preview",
		Description: "Preview Pro features with limitations",
		Level:       3,
		Permissions: []string{
			"notes:create", "notes:edit", "notes:delete", "notes:organize",
			"ai:chat", "ai:summarize", "ai:connections",
			"search:basic", "search:semantic", "search:filters",
			"share:public", "share:collaborate", "share:comments",
			"export:basic", "export:advanced",
			"integrations:basic",
		},
		Features: []string{
			"All trial features", "AI summarization (2/day)", "Semantic search",
			"Real-time collaboration", "Advanced export formats",
		},
		Limitations: []string{"Limited AI usage", "Watermarked exports", "Preview mode only", "No API access"},
	},
}

// NewPreviewCatalog builds the validated preview catalog.
func NewPreviewCatalog() (*Catalog[PreviewRole, PreviewPermission], error) {
	return NewCatalog(PreviewRoles, PreviewPermissions)
}

// PermissionLimitations returns the declared usage limitations for a
// preview permission; empty for permissions without limitations and for
// unknown ids.
func (c *Catalog[R, P]) PermissionLimitations(permissionID string) []string {
	p, ok := c.perms[permissionID]
	if !ok {
		return []string{}
	}
	if pp, ok := any(p).(PreviewPermission); ok && pp.Limitations != nil {
		return pp.Limitations
	}
	return []string{}
}

// DemoAvailable reports whether an interactive demo exists for a locked
// preview permission. Unknown ids resolve to false.
func (c *Catalog[R, P]) DemoAvailable(permissionID string) bool {
	p, ok := c.perms[permissionID]
	if !ok {
		return false
	}
	if pp, ok := any(p).(PreviewPermission); ok {
		return pp.DemoAvailable
	}
	return false
}
