package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectnotes/reflect-access/internal/audit"
	"github.com/reflectnotes/reflect-access/internal/authz"
	"github.com/reflectnotes/reflect-access/internal/identity"
)

type testServer struct {
	router *chi.Mux
	log    *audit.Log
	tokens *identity.TokenCodec
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	production, err := authz.NewProductionCatalog()
	require.NoError(t, err)
	preview, err := authz.NewPreviewCatalog()
	require.NoError(t, err)

	log := audit.NewLog()
	svc := authz.NewService(production, log, nil)
	tokens := identity.NewTokenCodec("test-secret", time.Hour)

	handler := NewHandler(svc, log, production, preview, tokens)
	return &testServer{
		router: NewRouter(handler, NewRateLimiter(10000, 10000)),
		log:    log,
		tokens: tokens,
	}
}

func (s *testServer) tokenFor(t *testing.T, user *identity.User) string {
	t.Helper()
	token, err := s.tokens.Issue(user)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

var regularUser = &identity.User{
	ID:          "user-1",
	Email:       "user1@example.com",
	Role:        authz.RoleUser,
	Permissions: []string{"notes:read", "notes:write", "notes:delete", "notes:share", "notes:export", "content:read"},
}

var adminUser = &identity.User{
	ID:          "admin-1",
	Email:       "admin@example.com",
	Role:        authz.RoleAdmin,
	Permissions: []string{"admin:dashboard", "admin:settings", "admin:logs", "admin:analytics"},
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestPurpose: Validates the fail-closed transport path: an anonymous
// permission check succeeds as a request but denies access and records
// an anonymous audit entry.
// Scope: Integration Test (HTTP)
// Security: Unauthenticated access control
// Expected: 200 with granted=false plus an audit entry for "anonymous".
func TestCheckAccess_Anonymous(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/check", "", `{"permission":"notes:read"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[checkResponse](t, rec).Granted)

	entries := srv.log.Query(audit.Filter{UserID: audit.AnonymousUser})
	require.Len(t, entries, 1)
	assert.Equal(t, "notes:read", entries[0].Permission)
	assert.False(t, entries[0].Granted)
}

func TestCheckAccess_SinglePermission(t *testing.T) {
	srv := newTestServer(t)
	token := srv.tokenFor(t, regularUser)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/check", token, `{"permission":"notes:read"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[checkResponse](t, rec).Granted)

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/check", token, `{"permission":"admin:dashboard"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[checkResponse](t, rec).Granted)
}

func TestCheckAccess_MultiplePermissions(t *testing.T) {
	srv := newTestServer(t)
	token := srv.tokenFor(t, regularUser)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/check", token,
		`{"permissions":["admin:logs","notes:read"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[checkResponse](t, rec).Granted, "ANY semantics: one match suffices")

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/check", token,
		`{"permissions":["admin:logs","notes:read"],"requireAll":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[checkResponse](t, rec).Granted, "ALL semantics: one miss denies")

	entries := srv.log.Query(audit.Filter{Resource: audit.ResourceMultiple})
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionCheckAll, entries[0].Action)
	assert.Equal(t, audit.ActionCheckAny, entries[1].Action)
	assert.Equal(t, "admin:logs,notes:read", entries[0].Permission)
}

func TestCheckAccess_RejectsEmptyRequest(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/check", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/check", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestPurpose: Validates that a present but invalid token is rejected
// rather than downgraded to anonymous.
// Scope: Integration Test (HTTP)
// Security: Token validation must not fail open.
// Expected: 401 for malformed and wrongly signed tokens.
func TestAuthMiddleware_RejectsInvalidToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/check", "garbage", `{"permission":"notes:read"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged := identity.NewTokenCodec("other-secret", time.Hour)
	token, err := forged.Issue(regularUser)
	require.NoError(t, err)
	rec = srv.do(t, http.MethodPost, "/api/v1/auth/check", token, `{"permission":"notes:read"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMyPermissions(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/auth/permissions", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/auth/permissions", srv.tokenFor(t, regularUser), "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[struct {
		Role        string             `json:"role"`
		Permissions []authz.Permission `json:"permissions"`
	}](t, rec)
	assert.Equal(t, authz.RoleUser, body.Role)
	assert.Len(t, body.Permissions, 6)
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/catalog/roles", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]authz.Role](t, rec), 3)

	rec = srv.do(t, http.MethodGet, "/api/v1/catalog/permissions", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]authz.Permission](t, rec), 20)

	rec = srv.do(t, http.MethodGet, "/api/v1/preview/roles", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]authz.PreviewRole](t, rec), 4)

	rec = srv.do(t, http.MethodGet, "/api/v1/preview/permissions", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]authz.PreviewPermission](t, rec), 18)
}

func TestPreviewCheck(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/preview/check?role=trial&permission=ai:chat", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[previewCheckResponse](t, rec)
	assert.True(t, body.Granted)
	assert.True(t, body.DemoAvailable)
	assert.Equal(t, []string{"5 AI interactions per day in preview"}, body.Limitations)

	rec = srv.do(t, http.MethodGet, "/api/v1/preview/check?role=visitor&permission=notes:create", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[previewCheckResponse](t, rec).Granted)

	rec = srv.do(t, http.MethodGet, "/api/v1/preview/check?role=trial", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestPurpose: Validates that the audit surface is gated on admin:logs
// and denies non-admin users with the built-in notice.
// Scope: Integration Test (HTTP)
// Security: Audit logs expose user activity and must stay admin-only.
// Expected: 403 for a regular user, 200 with entries for an admin.
func TestAuditLogs_Gated(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/admin/audit-logs", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/admin/audit-logs", srv.tokenFor(t, regularUser), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/admin/audit-logs", srv.tokenFor(t, adminUser), "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The gate itself audits: the two denials and the admin grant are
	// all on record by now.
	entries := decodeBody[[]audit.Entry](t, rec)
	require.NotEmpty(t, entries)
	assert.Equal(t, "admin:logs", entries[0].Permission)
}

func TestAuditLogs_Filters(t *testing.T) {
	srv := newTestServer(t)
	adminToken := srv.tokenFor(t, adminUser)

	// Generate traffic: one granted check for the user, one denied.
	userToken := srv.tokenFor(t, regularUser)
	srv.do(t, http.MethodPost, "/api/v1/auth/check", userToken, `{"permission":"notes:read"}`)
	srv.do(t, http.MethodPost, "/api/v1/auth/check", userToken, `{"permission":"admin:settings"}`)

	rec := srv.do(t, http.MethodGet, "/api/v1/admin/audit-logs?userId=user-1&granted=true", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeBody[[]audit.Entry](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes:read", entries[0].Permission)

	rec = srv.do(t, http.MethodGet, "/api/v1/admin/audit-logs?granted=maybe", adminToken, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuditLogStats(t *testing.T) {
	srv := newTestServer(t)

	srv.do(t, http.MethodPost, "/api/v1/auth/check", srv.tokenFor(t, regularUser), `{"permission":"notes:read"}`)

	rec := srv.do(t, http.MethodGet, "/api/v1/admin/audit-logs/stats", srv.tokenFor(t, adminUser), "")
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeBody[audit.Stats](t, rec)
	assert.Equal(t, stats.Total, stats.Granted+stats.Denied)
	assert.GreaterOrEqual(t, stats.Total, 2) // the check above plus the gate's own check
}
