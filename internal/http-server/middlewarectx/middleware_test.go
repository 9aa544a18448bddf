package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipestreet/recipe-street/internal/lib/jwt"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Minute)
	token, err := maker.GenerateToken("ana@example.com", "uid-1")
	require.NoError(t, err)

	var gotEmail, gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, _ = r.Context().Value(UserEmail).(string)
		gotUserID, _ = r.Context().Value(UserID).(string)
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTMiddleware(maker, newNoopLogger())(next)

	tests := []struct {
		name           string
		authHeader     string
		wantStatusCode int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatusCode, rec.Code)
		})
	}

	assert.Equal(t, "ana@example.com", gotEmail)
	assert.Equal(t, "uid-1", gotUserID)
}

func TestAdminKeyMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		configuredKey  string
		providedKey    string
		wantStatusCode int
	}{
		{"matching key", "admin-key", "admin-key", http.StatusOK},
		{"wrong key", "admin-key", "nope", http.StatusForbidden},
		{"missing key", "admin-key", "", http.StatusForbidden},
		{"empty configured key denies everyone", "", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AdminKeyMiddleware(tt.configuredKey, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tt.providedKey != "" {
				req.Header.Set(AdminKeyHeader, tt.providedKey)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatusCode, rec.Code)
		})
	}
}
