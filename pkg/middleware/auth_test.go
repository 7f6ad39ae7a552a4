package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfmachado/autorevenda/pkg/auth"
	"github.com/gfmachado/autorevenda/pkg/middleware"
)

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler := middleware.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, middleware.MsgTokenMissing, message(t, rec))
}

func TestAuthenticateInvalidToken(t *testing.T) {
	handler := middleware.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, middleware.MsgTokenInvalid, message(t, rec))
}

func TestAuthenticatePassesClaims(t *testing.T) {
	token, err := auth.Issue(5, "maria@example.com", auth.RoleClient)
	require.NoError(t, err)

	var got *auth.Claims
	handler := middleware.Authenticate(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = middleware.ClaimsFromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, uint(5), got.UserID)
	assert.Equal(t, auth.RoleClient, got.Role)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// No claims at all.
	rec := httptest.NewRecorder()
	middleware.RequireAdmin(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, middleware.MsgAdminOnly, message(t, rec))

	// Client role.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), &auth.Claims{UserID: 2, Role: auth.RoleClient}))
	rec = httptest.NewRecorder()
	middleware.RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin role.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), &auth.Claims{UserID: 1, Role: auth.RoleAdmin}))
	rec = httptest.NewRecorder()
	middleware.RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
