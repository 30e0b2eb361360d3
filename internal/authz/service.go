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

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/reflectnotes/reflect-access/internal/audit"
	"github.com/reflectnotes/reflect-access/internal/identity"
	"github.com/reflectnotes/reflect-access/internal/observability/metrics"
)

// Service is the single source of truth for "is this access allowed".
// Every check is a pure function of the identity snapshot and the
// requested permissions, paired with an audit record unless the caller
// suppresses logging (tests and internal re-checks pass logAccess=false
// to avoid audit noise).
//
// All checks fail closed: a nil user is equivalent to a user holding no
// permissions, never an error. This lets callers run checks
// unconditionally before authentication resolves; callers that must
// distinguish "denied" from "not authenticated" inspect the identity
// themselves.
type Service struct {
	catalog *Catalog[Role, Permission]
	log     audit.Recorder
	checks  metric.Int64Counter
}

// NewService creates a decision engine backed by the given catalog and
// audit recorder. meter may be nil to disable instrumentation.
func NewService(catalog *Catalog[Role, Permission], recorder audit.Recorder, meter *metrics.Meter) *Service {
	s := &Service{
		catalog: catalog,
		log:     recorder,
	}
	if meter != nil {
		counter, err := meter.CreateCounter("authz_checks_total", "Total permission checks by action and outcome")
		if err != nil {
			slog.Error("failed to create authz check counter", slog.String("error", err.Error()))
		} else {
			s.checks = counter
		}
	}
	return s
}

// CheckPermission reports whether the user holds the permission.
func (s *Service) CheckPermission(ctx context.Context, user *identity.User, permission string, logAccess bool) bool {
	if user == nil {
		s.deny(ctx, audit.ActionCheck, ResourceOf(permission), permission, logAccess)
		return false
	}

	granted := HasPermission(user.Permissions, permission)
	s.count(ctx, audit.ActionCheck, granted)
	if logAccess {
		details := "Permission denied"
		if granted {
			details = "Permission granted"
		}
		s.record(ctx, user, audit.ActionCheck, ResourceOf(permission), permission, granted, details)
	}
	return granted
}

// CheckAnyPermission reports whether the user holds at least one of the
// permissions (logical OR). An empty requirement set yields false.
func (s *Service) CheckAnyPermission(ctx context.Context, user *identity.User, permissions []string, logAccess bool) bool {
	joined := strings.Join(permissions, ",")
	if user == nil {
		s.deny(ctx, audit.ActionCheckAny, audit.ResourceMultiple, joined, logAccess)
		return false
	}

	granted := HasAnyPermission(user.Permissions, permissions)
	s.count(ctx, audit.ActionCheckAny, granted)
	if logAccess {
		details := "No permissions granted"
		if granted {
			details = "At least one permission granted"
		}
		s.record(ctx, user, audit.ActionCheckAny, audit.ResourceMultiple, joined, granted, details)
	}
	return granted
}

// CheckAllPermissions reports whether the user holds every permission
// (logical AND). An empty requirement set requires nothing and yields
// true for any authenticated user.
func (s *Service) CheckAllPermissions(ctx context.Context, user *identity.User, permissions []string, logAccess bool) bool {
	joined := strings.Join(permissions, ",")
	if user == nil {
		s.deny(ctx, audit.ActionCheckAll, audit.ResourceMultiple, joined, logAccess)
		return false
	}

	granted := HasAllPermissions(user.Permissions, permissions)
	s.count(ctx, audit.ActionCheckAll, granted)
	if logAccess {
		details := "Some permissions denied"
		if granted {
			details = "All permissions granted"
		}
		s.record(ctx, user, audit.ActionCheckAll, audit.ResourceMultiple, joined, granted, details)
	}
	return granted
}

// CanAccess composes a "<resource>:<action>" permission id and checks it.
func (s *Service) CanAccess(ctx context.Context, user *identity.User, resource, action string, logAccess bool) bool {
	return s.CheckPermission(ctx, user, resource+":"+action, logAccess)
}

// GetUserPermissions resolves the user's role through the catalog for
// display purposes. This is a separate resolution path from the
// identity's own permission snapshot: if the snapshot predates a catalog
// change the two can diverge. Decisions always use the snapshot.
func (s *Service) GetUserPermissions(user *identity.User) []Permission {
	if user == nil {
		return []Permission{}
	}
	return s.catalog.RolePermissions(user.Role)
}

// deny records a fail-closed denial for an unauthenticated caller.
func (s *Service) deny(ctx context.Context, action, resource, permission string, logAccess bool) {
	s.count(ctx, action, false)
	if logAccess {
		s.record(ctx, nil, action, resource, permission, false, "User not authenticated")
	}
}

func (s *Service) record(ctx context.Context, user *identity.User, action, resource, permission string, granted bool, details string) {
	info := audit.ClientInfoFromContext(ctx)
	entry := audit.Entry{
		UserID:     audit.AnonymousUser,
		UserEmail:  audit.AnonymousUser,
		Action:     action,
		Resource:   resource,
		Permission: permission,
		Granted:    granted,
		IP:         info.IP,
		UserAgent:  info.UserAgent,
		Details:    details,
	}
	if user != nil {
		entry.UserID = user.ID
		entry.UserEmail = user.Email
	}
	s.log.Record(ctx, entry)
}

func (s *Service) count(ctx context.Context, action string, granted bool) {
	if s.checks == nil {
		return
	}
	s.checks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.Bool("granted", granted),
	))
}
