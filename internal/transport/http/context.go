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
	"context"

	"github.com/reflectnotes/reflect-access/internal/identity"
)

type contextKey string

const userKey contextKey = "user"

// UserFromContext retrieves the authenticated identity from context.
// Returns nil for anonymous requests; authorization checks treat nil as
// "no permissions" rather than an error.
func UserFromContext(ctx context.Context) *identity.User {
	if user, ok := ctx.Value(userKey).(*identity.User); ok {
		return user
	}
	return nil
}

// WithUser attaches the authenticated identity to the context.
func WithUser(ctx context.Context, user *identity.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
