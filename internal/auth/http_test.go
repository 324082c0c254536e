// ABOUTME: Tests for the HTTP authentication middleware
// ABOUTME: Covers token extraction, user resolution, and the admin gate

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/helpdesk-gateway/internal/store"
)

func seedUser(t *testing.T, mockStore *store.MockStore, id, role string) {
	t.Helper()
	err := mockStore.CreateUser(context.Background(), &store.User{
		ID:        id,
		Email:     id + "@example.com",
		Role:      role,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestMiddlewareAttachesUser(t *testing.T) {
	mockStore := store.NewMockStore()
	seedUser(t, mockStore, "user-1", store.RoleUser)

	verifier := NewJWTVerifier([]byte("test-secret-at-least-32-bytes-long"))
	token, err := verifier.Generate("user-1", time.Hour)
	require.NoError(t, err)

	var seen *store.User
	handler := Middleware(mockStore, verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.ID)
}

func TestMiddlewareRejectsBadHeaders(t *testing.T) {
	mockStore := store.NewMockStore()
	verifier := NewJWTVerifier([]byte("test-secret-at-least-32-bytes-long"))
	handler := Middleware(mockStore, verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc123"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestMiddlewareRejectsUnknownSubject(t *testing.T) {
	mockStore := store.NewMockStore()
	verifier := NewJWTVerifier([]byte("test-secret-at-least-32-bytes-long"))
	token, err := verifier.Generate("ghost", time.Hour)
	require.NoError(t, err)

	handler := Middleware(mockStore, verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	okHandler := RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req = req.WithContext(WithUser(req.Context(), &store.User{ID: "a", Role: store.RoleAdmin}))
		rec := httptest.NewRecorder()
		okHandler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req = req.WithContext(WithUser(req.Context(), &store.User{ID: "u", Role: store.RoleUser}))
		rec := httptest.NewRecorder()
		okHandler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		rec := httptest.NewRecorder()
		okHandler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
