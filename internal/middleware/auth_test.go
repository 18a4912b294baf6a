package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-api/internal/model"
	"catalog-api/internal/token"
)

type stubUsers map[string]model.User

func (s stubUsers) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(user.ID))
	})
}

func TestRequireAuth(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	users := stubUsers{"u1": {ID: "u1", Name: "Alice", Email: "a@b.com", Role: model.RoleUser}}
	mw := NewAuthMiddleware(tokens, users)
	handler := mw.RequireAuth(echoUser())

	valid, _, err := tokens.Issue("u1")
	require.NoError(t, err)

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Not authorized to access this route", decodeMessage(t, rec))
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+valid)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", rec.Body.String())
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: valid})
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid or missing token. Please sign in again.", decodeMessage(t, rec))
	})

	t.Run("expired token", func(t *testing.T) {
		past := token.NewService("secret", time.Hour, token.WithClock(func() time.Time {
			return time.Now().Add(-2 * time.Hour)
		}))
		expired, _, err := past.Issue("u1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Your session has expired. Please sign in again.", decodeMessage(t, rec))
	})

	t.Run("user deleted", func(t *testing.T) {
		ghost, _, err := tokens.Issue("ghost")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+ghost)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "User not found", decodeMessage(t, rec))
	})
}

func TestRequireRoles(t *testing.T) {
	mw := NewAuthMiddleware(nil, nil)
	gate := mw.RequireRoles("admin")(echoUser())

	t.Run("no user attached", func(t *testing.T) {
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "You do not have permission to perform this action", decodeMessage(t, rec))
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil)
		req = req.WithContext(WithUser(req.Context(), model.User{ID: "u1", Role: model.RoleUser}))
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("allowed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil)
		req = req.WithContext(WithUser(req.Context(), model.User{ID: "a1", Role: model.RoleAdmin}))
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a1", rec.Body.String())
	})
}
