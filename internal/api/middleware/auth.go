package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskfleet/taskfleet/internal/api/shared"
	"github.com/taskfleet/taskfleet/internal/redact"
	"github.com/taskfleet/taskfleet/internal/service/auth"
	"github.com/taskfleet/taskfleet/internal/store"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	tokenService auth.TokenService
	userStore    store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService auth.TokenService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		userStore:    userStore,
	}
}

// Authenticate validates the access token from the Authorization header,
// resolves the subject user, and adds the user to the request context.
// A missing or malformed header is 401; a token that fails validation or
// a subject that no longer exists is 403.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		claims, err := m.tokenService.ValidateToken(r.Context(), token, auth.TokenKindAccess)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusForbidden, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenType):
				shared.RespondWithError(w, r, http.StatusForbidden, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				shared.RespondWithError(w, r, http.StatusForbidden, "User not found")
				return
			}
			shared.RespondWithErrorAndLog(w, r,
				http.StatusInternalServerError, "Authentication error", err)
			return
		}

		ctx := shared.SetCurrentUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireManager rejects requests whose authenticated user does not hold
// the Manager role. It must run after Authenticate.
func (m *AuthMiddleware) RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := shared.GetCurrentUser(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}
		if !user.IsManager() {
			shared.RespondWithError(w, r, http.StatusForbidden, "Access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The boolean is false when the header is missing or malformed.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
