package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing the session user in context
	UserContextKey contextKey = "user"
)

// LoadSession validates the session cookie, slides its expiry and places the user in
// the request context. Requests without a valid session continue anonymously.
func LoadSession(sm *SessionManager, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := sm.Parse(r)
			if err != nil {
				if !errors.Is(err, ErrNoSession) {
					logger.Debug("discarding invalid session", slog.Any("error", err))
					sm.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			if _, err := sm.Refresh(w, claims); err != nil {
				logger.Error("failed to refresh session", slog.Any("error", err))
			}

			user := claims.User
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &user)))
		})
	}
}

// RequireLogin redirects anonymous requests to loginPath.
func RequireLogin(loginPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFromContext(r.Context()) == nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, user *SessionUser) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext returns the session user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *SessionUser {
	user, ok := ctx.Value(UserContextKey).(*SessionUser)
	if !ok {
		return nil
	}
	return user
}
