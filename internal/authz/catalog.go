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
	"fmt"
	"sort"
)

// PermissionEntry is implemented by permission catalog rows.
type PermissionEntry interface {
	PermissionID() string
}

// RoleEntry is implemented by role catalog rows.
type RoleEntry interface {
	RoleID() string
	RoleLevel() int
	Grants() []string
}

// Catalog is a static, immutable registry of roles and permissions. The
// production and preview registries share this one implementation. A
// catalog is built once at startup and only read afterwards, so it is
// safe for concurrent use without locking.
//
// Lookups never fail: an unknown id resolves to an empty result. Catalog
// data often meets untrusted input (permission strings out of URLs), and
// absence simply means "no permissions".
type Catalog[R RoleEntry, P PermissionEntry] struct {
	roles     map[string]R
	roleOrder []string
	perms     map[string]P
	permOrder []string
}

// NewCatalog builds a catalog and validates its integrity: unique ids,
// no role referencing a permission outside the catalog, and permission
// sets monotonic in role level (a higher-level role grants everything a
// lower-level role grants).
func NewCatalog[R RoleEntry, P PermissionEntry](roles []R, permissions []P) (*Catalog[R, P], error) {
	c := &Catalog[R, P]{
		roles: make(map[string]R, len(roles)),
		perms: make(map[string]P, len(permissions)),
	}

	for _, p := range permissions {
		id := p.PermissionID()
		if _, ok := c.perms[id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePermission, id)
		}
		c.perms[id] = p
		c.permOrder = append(c.permOrder, id)
	}

	for _, r := range roles {
		id := r.RoleID()
		if _, ok := c.roles[id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRole, id)
		}
		for _, pid := range r.Grants() {
			if _, ok := c.perms[pid]; !ok {
				return nil, fmt.Errorf("%w: role %q grants %q", ErrUnknownPermissionRef, id, pid)
			}
		}
		c.roles[id] = r
		c.roleOrder = append(c.roleOrder, id)
	}

	if err := checkLevelMonotonicity(roles); err != nil {
		return nil, err
	}
	return c, nil
}

// checkLevelMonotonicity verifies that a role at a higher level grants a
// superset of every strictly lower level's grants.
func checkLevelMonotonicity[R RoleEntry](roles []R) error {
	ordered := make([]R, len(roles))
	copy(ordered, roles)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RoleLevel() < ordered[j].RoleLevel()
	})

	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].RoleLevel() <= ordered[i].RoleLevel() {
				continue
			}
			granted := make(map[string]struct{}, len(ordered[j].Grants()))
			for _, pid := range ordered[j].Grants() {
				granted[pid] = struct{}{}
			}
			for _, pid := range ordered[i].Grants() {
				if _, ok := granted[pid]; !ok {
					return fmt.Errorf("%w: role %q (level %d) lacks %q granted by role %q (level %d)",
						ErrLevelNotMonotonic,
						ordered[j].RoleID(), ordered[j].RoleLevel(),
						pid,
						ordered[i].RoleID(), ordered[i].RoleLevel())
				}
			}
		}
	}
	return nil
}

func inconsistentPermission(id, resource, action string) error {
	return fmt.Errorf("%w: %q (resource %q, action %q)", ErrInconsistentID, id, resource, action)
}

// Role returns the role with the given id.
func (c *Catalog[R, P]) Role(id string) (R, bool) {
	r, ok := c.roles[id]
	return r, ok
}

// Permission returns the permission with the given id.
func (c *Catalog[R, P]) Permission(id string) (P, bool) {
	p, ok := c.perms[id]
	return p, ok
}

// Roles returns all roles in declaration order.
func (c *Catalog[R, P]) Roles() []R {
	out := make([]R, 0, len(c.roleOrder))
	for _, id := range c.roleOrder {
		out = append(out, c.roles[id])
	}
	return out
}

// Permissions returns all permissions in declaration order.
func (c *Catalog[R, P]) Permissions() []P {
	out := make([]P, 0, len(c.permOrder))
	for _, id := range c.permOrder {
		out = append(out, c.perms[id])
	}
	return out
}

// RolePermissions returns the full permission entries granted to a role,
// in catalog declaration order. An unknown role id resolves to an empty
// slice, never an error.
func (c *Catalog[R, P]) RolePermissions(roleID string) []P {
	out := make([]P, 0)
	role, ok := c.roles[roleID]
	if !ok {
		return out
	}
	granted := make(map[string]struct{}, len(role.Grants()))
	for _, pid := range role.Grants() {
		granted[pid] = struct{}{}
	}
	for _, id := range c.permOrder {
		if _, ok := granted[id]; ok {
			out = append(out, c.perms[id])
		}
	}
	return out
}

// HasRolePermission reports whether the role grants the permission.
// Unknown role or permission ids resolve to false.
func (c *Catalog[R, P]) HasRolePermission(roleID, permissionID string) bool {
	role, ok := c.roles[roleID]
	if !ok {
		return false
	}
	for _, pid := range role.Grants() {
		if pid == permissionID {
			return true
		}
	}
	return false
}
