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
	"net/http"

	"github.com/reflectnotes/reflect-access/internal/authz"
)

// GateConfig describes how a route is gated. Exactly one of Permission
// or Permissions is normally set; when neither is, the gate is an
// ungated passthrough by design, not an omission.
type GateConfig struct {
	// Permission gates on a single permission id.
	Permission string
	// Permissions gates on a set; RequireAll selects AND over OR
	// semantics.
	Permissions []string
	RequireAll  bool
	// Fallback, when set, serves denied requests instead of the
	// built-in responses.
	Fallback http.Handler
	// ShowError selects the built-in "access denied" notice for denied
	// requests without a Fallback. When false the denial is silent: a
	// 404 that does not reveal the resource exists.
	ShowError bool
}

// Gate wraps protected routes. Allowed requests pass through to the next
// handler; denied requests get the fallback, an access-denied notice, or
// a silent 404. Every gated request produces an audit record through the
// decision engine.
func Gate(svc *authz.Service, cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())

			allowed := true
			switch {
			case cfg.Permission != "":
				allowed = svc.CheckPermission(r.Context(), user, cfg.Permission, true)
			case len(cfg.Permissions) > 0:
				if cfg.RequireAll {
					allowed = svc.CheckAllPermissions(r.Context(), user, cfg.Permissions, true)
				} else {
					allowed = svc.CheckAnyPermission(r.Context(), user, cfg.Permissions, true)
				}
			}

			if allowed {
				next.ServeHTTP(w, r)
				return
			}
			if cfg.Fallback != nil {
				cfg.Fallback.ServeHTTP(w, r)
				return
			}
			if cfg.ShowError {
				respondError(w, http.StatusForbidden, "you don't have permission to access this resource")
				return
			}
			respondError(w, http.StatusNotFound, "not found")
		})
	}
}

// RequirePermission gates a route on a single permission with the
// built-in access-denied notice.
func RequirePermission(svc *authz.Service, permission string) func(http.Handler) http.Handler {
	return Gate(svc, GateConfig{Permission: permission, ShowError: true})
}
