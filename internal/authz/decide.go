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

import "strings"

// Pure decision functions. The Service wraps these with audit
// recording; keeping them separate lets decision logic be tested and
// reused without an audit sink.

// HasPermission reports whether the required permission is present in
// the granted set.
func HasPermission(granted []string, required string) bool {
	for _, p := range granted {
		if p == required {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether at least one required permission is
// present in the granted set. An empty requirement set is never
// satisfiable under OR semantics and yields false.
func HasAnyPermission(granted []string, required []string) bool {
	for _, r := range required {
		if HasPermission(granted, r) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every required permission is present
// in the granted set. An empty requirement set requires nothing and is
// vacuously true.
func HasAllPermissions(granted []string, required []string) bool {
	for _, r := range required {
		if !HasPermission(granted, r) {
			return false
		}
	}
	return true
}

// ResourceOf extracts the resource segment of a "<resource>:<action>"
// permission id. A malformed id without a colon is tolerated: the whole
// string is treated as the resource.
func ResourceOf(permission string) string {
	if i := strings.Index(permission, ":"); i >= 0 {
		return permission[:i]
	}
	return permission
}
