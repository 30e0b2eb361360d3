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

package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/reflectnotes/reflect-access/internal/audit"
	"github.com/reflectnotes/reflect-access/internal/authz"
	"github.com/reflectnotes/reflect-access/internal/identity"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	authzService *authz.Service
	auditLog     *audit.Log
	production   *authz.Catalog[authz.Role, authz.Permission]
	preview      *authz.Catalog[authz.PreviewRole, authz.PreviewPermission]
	tokens       *identity.TokenCodec
	validate     *validator.Validate
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authzService *authz.Service,
	auditLog *audit.Log,
	production *authz.Catalog[authz.Role, authz.Permission],
	preview *authz.Catalog[authz.PreviewRole, authz.PreviewPermission],
	tokens *identity.TokenCodec,
) *Handler {
	return &Handler{
		authzService: authzService,
		auditLog:     auditLog,
		production:   production,
		preview:      preview,
		tokens:       tokens,
		validate:     validator.New(),
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.Post("/auth/check", h.CheckAccess)
		r.With(RequireAuth).Get("/auth/permissions", h.MyPermissions)

		r.Get("/catalog/roles", h.ListRoles)
		r.Get("/catalog/permissions", h.ListPermissions)

		r.Get("/preview/roles", h.ListPreviewRoles)
		r.Get("/preview/permissions", h.ListPreviewPermissions)
		r.Get("/preview/check", h.PreviewCheck)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequirePermission(h.authzService, "admin:logs"))

			r.Get("/audit-logs", h.AuditLogs)
			r.Get("/audit-logs/stats", h.AuditLogStats)
		})
	})

	return r
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type checkRequest struct {
	Permission  string   `json:"permission" validate:"required_without=Permissions"`
	Permissions []string `json:"permissions" validate:"omitempty,min=1,dive,required"`
	RequireAll  bool     `json:"requireAll"`
}

type checkResponse struct {
	Granted bool `json:"granted"`
}

// CheckAccess decides a permission check for the caller. Anonymous
// callers are served too: every check fails closed and is audited with
// the anonymous sentinel.
func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "permission or permissions is required")
		return
	}

	user := UserFromContext(r.Context())

	var granted bool
	switch {
	case req.Permission != "":
		granted = h.authzService.CheckPermission(r.Context(), user, req.Permission, true)
	case req.RequireAll:
		granted = h.authzService.CheckAllPermissions(r.Context(), user, req.Permissions, true)
	default:
		granted = h.authzService.CheckAnyPermission(r.Context(), user, req.Permissions, true)
	}

	respondJSON(w, http.StatusOK, checkResponse{Granted: granted})
}

// MyPermissions lists the caller's permissions resolved from the catalog
// by role. This is the display path: it can diverge from the token's
// permission snapshot if the catalog changed after the token was issued.
func (h *Handler) MyPermissions(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"role":        user.Role,
		"permissions": h.authzService.GetUserPermissions(user),
	})
}

// ListRoles returns the production role catalog.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.production.Roles())
}

// ListPermissions returns the production permission catalog.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.production.Permissions())
}

// ListPreviewRoles returns the preview role catalog.
func (h *Handler) ListPreviewRoles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.preview.Roles())
}

// ListPreviewPermissions returns the preview permission catalog.
func (h *Handler) ListPreviewPermissions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.preview.Permissions())
}

type previewCheckResponse struct {
	Granted       bool     `json:"granted"`
	Limitations   []string `json:"limitations"`
	DemoAvailable bool     `json:"demoAvailable"`
}

// PreviewCheck answers whether a preview role unlocks a permission,
// together with the permission's preview limitations and demo
// availability. Preview checks are role-based and need no identity;
// unknown role or permission ids resolve to a denial, never an error.
func (h *Handler) PreviewCheck(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	permission := r.URL.Query().Get("permission")
	if role == "" || permission == "" {
		respondError(w, http.StatusBadRequest, "role and permission query parameters are required")
		return
	}

	respondJSON(w, http.StatusOK, previewCheckResponse{
		Granted:       h.preview.HasRolePermission(role, permission),
		Limitations:   h.preview.PermissionLimitations(permission),
		DemoAvailable: h.preview.DemoAvailable(permission),
	})
}

// AuditLogs returns retained audit entries matching the query filters,
// most recent first.
func (h *Handler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.Filter{
		UserID:    q.Get("userId"),
		Action:    q.Get("action"),
		Resource:  q.Get("resource"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
	if raw := q.Get("granted"); raw != "" {
		granted, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "granted must be a boolean")
			return
		}
		filter.Granted = &granted
	}

	respondJSON(w, http.StatusOK, h.auditLog.Query(filter))
}

// AuditLogStats returns aggregate stats over the whole retained buffer.
func (h *Handler) AuditLogStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.auditLog.Stats())
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
