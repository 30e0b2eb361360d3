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

package audit

import "context"

// Action values recorded on audit entries. The set is open: callers may
// record actions outside this list and the log accepts them unchanged.
const (
	ActionCheck        = "check"
	ActionCheckAny     = "check_any"
	ActionCheckAll     = "check_all"
	ActionLoginAttempt = "login_attempt"
	ActionLoginSuccess = "login_success"
	ActionLoginFailed  = "login_failed"
)

// Well-known resource values for entries that do not map to a single
// permission resource.
const (
	ResourceMultiple = "multiple"
	ResourceAuth     = "auth"
)

// Sentinels used when identity or request context is unavailable.
const (
	AnonymousUser = "anonymous"
	Unknown       = "unknown"
)

// Entry is a single authorization decision record. ID and Timestamp are
// assigned by the log at insertion time; callers leave them empty.
type Entry struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	UserEmail  string `json:"userEmail"`
	Action     string `json:"action"`
	Resource   string `json:"resource"`
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
	Timestamp  string `json:"timestamp"`
	IP         string `json:"ip"`
	UserAgent  string `json:"userAgent"`
	Details    string `json:"details,omitempty"`
}

// Recorder is the write side of the audit trail. Record must never fail:
// auditing may not block the operation it observes.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// Sink receives a copy of every recorded entry for out-of-band durable
// storage. The in-memory log retains only the most recent entries, so a
// sink is the only way to keep long-tail history.
type Sink interface {
	Archive(ctx context.Context, entry Entry) error
}

// ClientInfo carries caller network context for audit entries.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type clientInfoKey struct{}

// WithClientInfo attaches caller network context for downstream audit
// records.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFromContext returns the caller network context, substituting
// the "unknown" sentinel for missing fields.
func ClientInfoFromContext(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	if info.IP == "" {
		info.IP = Unknown
	}
	if info.UserAgent == "" {
		info.UserAgent = Unknown
	}
	return info
}
