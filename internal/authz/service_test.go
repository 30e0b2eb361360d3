package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectnotes/reflect-access/internal/audit"
	"github.com/reflectnotes/reflect-access/internal/authz"
	"github.com/reflectnotes/reflect-access/internal/identity"
)

func newTestService(t *testing.T) (*authz.Service, *audit.Log) {
	t.Helper()
	catalog, err := authz.NewProductionCatalog()
	require.NoError(t, err)
	log := audit.NewLog()
	return authz.NewService(catalog, log, nil), log
}

func testUser() *identity.User {
	return &identity.User{
		ID:          "user-1",
		Email:       "user1@example.com",
		Role:        authz.RoleUser,
		Permissions: []string{"notes:read", "notes:write"},
	}
}

// TestPurpose: Validates the fail-closed default: without an identity
// every check is denied and audited with the anonymous sentinel, never
// raising an error.
// Scope: Unit Test
// Security: Unauthenticated access control (fail closed)
// Expected: false result plus one audit entry with userId "anonymous",
// granted=false and a "not authenticated" detail.
func TestService_CheckPermission_FailClosedWithoutIdentity(t *testing.T) {
	svc, log := newTestService(t)
	ctx := context.Background()

	assert.False(t, svc.CheckPermission(ctx, nil, "notes:read", true))

	entries := log.Query(audit.Filter{})
	require.Len(t, entries, 1)
	assert.Equal(t, audit.AnonymousUser, entries[0].UserID)
	assert.Equal(t, audit.AnonymousUser, entries[0].UserEmail)
	assert.Equal(t, audit.ActionCheck, entries[0].Action)
	assert.Equal(t, "notes", entries[0].Resource)
	assert.Equal(t, "notes:read", entries[0].Permission)
	assert.False(t, entries[0].Granted)
	assert.Equal(t, "User not authenticated", entries[0].Details)
}

// TestPurpose: Validates the single-permission round trip: a user role
// holding notes permissions is granted notes:read and denied
// admin:dashboard, with exactly one audit entry per call.
// Scope: Unit Test
// Expected: true/false results and matching permission fields in the log.
func TestService_CheckPermission_RoundTrip(t *testing.T) {
	svc, log := newTestService(t)
	ctx := context.Background()
	user := testUser()

	assert.True(t, svc.CheckPermission(ctx, user, "notes:read", true))
	assert.False(t, svc.CheckPermission(ctx, user, "admin:dashboard", true))

	entries := log.Query(audit.Filter{})
	require.Len(t, entries, 2)
	// Most recent first.
	assert.Equal(t, "admin:dashboard", entries[0].Permission)
	assert.Equal(t, "admin", entries[0].Resource)
	assert.False(t, entries[0].Granted)
	assert.Equal(t, "notes:read", entries[1].Permission)
	assert.Equal(t, "notes", entries[1].Resource)
	assert.True(t, entries[1].Granted)

	for _, e := range entries {
		assert.Equal(t, "user-1", e.UserID)
		assert.Equal(t, "user1@example.com", e.UserEmail)
		assert.Equal(t, audit.ActionCheck, e.Action)
	}
}

func TestService_CheckPermission_SuppressedLogging(t *testing.T) {
	svc, log := newTestService(t)
	ctx := context.Background()

	assert.True(t, svc.CheckPermission(ctx, testUser(), "notes:read", false))
	assert.False(t, svc.CheckPermission(ctx, nil, "notes:read", false))

	assert.Empty(t, log.Query(audit.Filter{}))
}

func TestService_CheckAnyPermission(t *testing.T) {
	svc, log := newTestService(t)
	ctx := context.Background()
	user := testUser()

	assert.True(t, svc.CheckAnyPermission(ctx, user, []string{"admin:logs", "notes:read"}, true))
	assert.False(t, svc.CheckAnyPermission(ctx, user, []string{"admin:logs", "users:write"}, true))
	assert.False(t, svc.CheckAnyPermission(ctx, user, []string{}, true), "empty requirement set is unsatisfiable under OR")

	entries := log.Query(audit.Filter{Action: audit.ActionCheckAny})
	require.Len(t, entries, 3)
	assert.Equal(t, audit.ResourceMultiple, entries[2].Resource)
	assert.Equal(t, "admin:logs,notes:read", entries[2].Permission)
	assert.Equal(t, "At least one permission granted", entries[2].Details)
	assert.Equal(t, "No permissions granted", entries[1].Details)
}

func TestService_CheckAllPermissions(t *testing.T) {
	svc, log := newTestService(t)
	ctx := context.Background()
	user := testUser()

	assert.True(t, svc.CheckAllPermissions(ctx, user, []string{"notes:read", "notes:write"}, true))
	assert.False(t, svc.CheckAllPermissions(ctx, user, []string{"notes:read", "admin:logs"}, true))
	assert.True(t, svc.CheckAllPermissions(ctx, user, []string{}, true), "empty requirement set is vacuously satisfied")

	// Anonymous callers are denied even the vacuous case.
	assert.False(t, svc.CheckAllPermissions(ctx, nil, []string{}, true))

	entries := log.Query(audit.Filter{Action: audit.ActionCheckAll})
	require.Len(t, entries, 4)
	assert.Equal(t, "notes:read,notes:write", entries[3].Permission)
	assert.Equal(t, "All permissions granted", entries[3].Details)
	assert.Equal(t, "Some permissions denied", entries[2].Details)
}

func TestService_CanAccess(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.True(t, svc.CanAccess(ctx, testUser(), "notes", "read", false))
	assert.False(t, svc.CanAccess(ctx, testUser(), "admin", "dashboard", false))
}

// TestPurpose: Validates that display resolution goes through the
// catalog by role, independently of the identity's permission snapshot.
// Scope: Unit Test
// Expected: Catalog grants for the role, not the (narrower) snapshot.
func TestService_GetUserPermissions_ResolvesFromCatalog(t *testing.T) {
	svc, _ := newTestService(t)

	// Snapshot deliberately narrower than the catalog's "user" grants.
	perms := svc.GetUserPermissions(testUser())
	assert.Len(t, perms, 6)

	ids := make([]string, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, "content:read")

	assert.Empty(t, svc.GetUserPermissions(nil))
	assert.Empty(t, svc.GetUserPermissions(&identity.User{Role: "nonexistent-role"}))
}

func TestService_ClientInfoPropagation(t *testing.T) {
	svc, log := newTestService(t)
	ctx := audit.WithClientInfo(context.Background(), audit.ClientInfo{
		IP:        "203.0.113.7",
		UserAgent: "integration-test",
	})

	svc.CheckPermission(ctx, testUser(), "notes:read", true)

	entries := log.Query(audit.Filter{})
	require.Len(t, entries, 1)
	assert.Equal(t, "203.0.113.7", entries[0].IP)
	assert.Equal(t, "integration-test", entries[0].UserAgent)

	// Without client info the unknown sentinel is recorded.
	svc.CheckPermission(context.Background(), testUser(), "notes:read", true)
	entries = log.Query(audit.Filter{})
	require.Len(t, entries, 2)
	assert.Equal(t, audit.Unknown, entries[0].IP)
	assert.Equal(t, audit.Unknown, entries[0].UserAgent)
}
