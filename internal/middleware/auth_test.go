package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveWithAuth(header string, next http.Handler) *httptest.ResponseRecorder {
	handler := AuthMiddleware(testSecret, zap.NewNop())(next)
	req := httptest.NewRequest(http.MethodPost, "/api/products/1/stock/reduce", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// Feature: catalog-stock, Property 12: Admin endpoints reject missing or malformed tokens
func TestProperty_MalformedAuthorizationIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("anything but a signed bearer token gets 401", prop.ForAll(
		func(header string) bool {
			called := false
			w := serveWithAuth(header, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			return w.Code == http.StatusUnauthorized && !called
		},
		gen.OneGenOf(
			gen.Const(""),
			gen.AlphaString(),
			gen.AlphaString().Map(func(s string) string { return "Bearer " + s }),
			gen.AlphaString().Map(func(s string) string { return "Basic " + s }),
		),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: catalog-stock, Property 13: Valid tokens expose subject and role
func TestProperty_ValidTokensExposeClaims(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("subject and role reach the handler", prop.ForAll(
		func(subject, role string) bool {
			token, err := IssueToken(testSecret, subject, role, time.Hour)
			if err != nil {
				return false
			}

			var gotSubject, gotRole string
			w := serveWithAuth("Bearer "+token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject, _ = GetSubject(r.Context())
				gotRole, _ = GetRole(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			return w.Code == http.StatusOK && gotSubject == subject && gotRole == role
		},
		gen.Identifier(),
		gen.OneConstOf("admin", "viewer"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := IssueToken(testSecret, "ops", RoleAdmin, -time.Minute)
	require.NoError(t, err)

	w := serveWithAuth("Bearer "+token, okHandler())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestTokenSignedWithAnotherSecretIsRejected(t *testing.T) {
	token, err := IssueToken("other-secret", "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serveWithAuth("Bearer "+token, okHandler()).Code)
}

func TestTokenWithoutRoleIsRejected(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "ops", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := serveWithAuth("Bearer "+token, okHandler())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token claims")
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		status int
	}{
		{"admin passes", RoleAdmin, http.StatusOK},
		{"viewer is forbidden", "viewer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := IssueToken(testSecret, "someone", tt.role, time.Hour)
			require.NoError(t, err)

			chain := AuthMiddleware(testSecret, zap.NewNop())(RequireAdmin(zap.NewNop())(okHandler()))
			req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			chain.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	w := httptest.NewRecorder()
	RequireRole([]string{RoleAdmin}, zap.NewNop())(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
