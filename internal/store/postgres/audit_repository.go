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

package postgres

import (
	"context"
	"fmt"

	"github.com/reflectnotes/reflect-access/internal/audit"
)

// auditSchema backs the durable audit archive. The in-memory log is the
// query surface; this table only preserves long-tail history beyond the
// in-memory retention bound.
const auditSchema = `
CREATE TABLE IF NOT EXISTS permission_logs (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	user_email  TEXT NOT NULL,
	action      TEXT NOT NULL,
	resource    TEXT NOT NULL,
	permission  TEXT NOT NULL,
	granted     BOOLEAN NOT NULL,
	recorded_at TEXT NOT NULL,
	ip          TEXT NOT NULL,
	user_agent  TEXT NOT NULL,
	details     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS permission_logs_recorded_at_idx ON permission_logs (recorded_at);
`

// AuditRepository implements audit.Sink against PostgreSQL.
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new audit archive repository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureSchema creates the archive table if it does not exist.
func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.pool.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("failed to ensure audit schema: %w", err)
	}
	return nil
}

// Archive persists a copy of an audit entry.
func (r *AuditRepository) Archive(ctx context.Context, e audit.Entry) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO permission_logs (id, user_id, user_email, action, resource, permission, granted, recorded_at, ip, user_agent, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		e.ID, e.UserID, e.UserEmail, e.Action, e.Resource, e.Permission,
		e.Granted, e.Timestamp, e.IP, e.UserAgent, e.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to archive audit entry: %w", err)
	}
	return nil
}
