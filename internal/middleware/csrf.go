package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/solutionshub/internal/auth"
)

const (
	CSRFFormField  = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
	csrfTokenTTL   = 12 * time.Hour
)

type csrfContextKey struct{}

// CSRFToken returns the token to embed in forms rendered for this request.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}

// CSRFProtection implements the double-submit cookie pattern: every response carries a
// csrf_token cookie, and state-changing requests must echo it in the form field or the
// X-CSRF-Token header.
func CSRFProtection(cookies auth.CookieConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookieToken, err := auth.GetCSRFTokenCookie(r)
			if err != nil || cookieToken == "" {
				cookieToken, err = auth.GenerateCSRFToken()
				if err != nil {
					logger.Error("failed to generate CSRF token", slog.Any("error", err))
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				auth.SetCSRFTokenCookie(w, cookieToken, csrfTokenTTL, cookies)
			}

			if isStateChangingMethod(r.Method) {
				submitted := r.Header.Get(CSRFHeaderName)
				if submitted == "" {
					submitted = r.PostFormValue(CSRFFormField)
				}

				if !auth.CSRFTokensMatch(submitted, cookieToken) {
					logger.Warn("CSRF token validation failed",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path))
					http.Error(w, "CSRF token invalid", http.StatusForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), csrfContextKey{}, cookieToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isStateChangingMethod checks if the HTTP method modifies state
func isStateChangingMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	default:
		return false
	}
}
