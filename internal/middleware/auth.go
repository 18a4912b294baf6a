package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"catalog-api/internal/model"
	"catalog-api/internal/respond"
	"catalog-api/pkg/apierror"
)

const (
	TokenCookieName = "token"

	msgNotAuthorized = "Not authorized to access this route"
	msgUserNotFound  = "User not found"
	msgNoPermission  = "You do not have permission to perform this action"
)

type tokenVerifier interface {
	Verify(token string) (string, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type contextKey string

const userContextKey contextKey = "auth_user"

type AuthMiddleware struct {
	tokens tokenVerifier
	users  userLoader
}

func NewAuthMiddleware(tokens tokenVerifier, users userLoader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// RequireAuth reads the session token from the cookie, then the bearer header, and attaches
// the stored user (without password) to the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			respond.Error(w, r, apierror.Unauthenticated(msgNotAuthorized))
			return
		}

		userID, err := m.tokens.Verify(token)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		user, err := m.users.FindByID(r.Context(), userID)
		if errors.Is(err, model.ErrNotFound) {
			respond.Error(w, r, apierror.Unauthenticated(msgUserNotFound))
			return
		}
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRoles must run after RequireAuth.
func (m *AuthMiddleware) RequireRoles(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				respond.Error(w, r, apierror.Forbidden(msgNoPermission))
				return
			}

			if _, exists := roleSet[strings.ToLower(user.Role)]; !exists {
				respond.Error(w, r, apierror.Forbidden(msgNoPermission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey).(model.User)
	return user, ok
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return strings.TrimSpace(cookie.Value)
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return ""
}
