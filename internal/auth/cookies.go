package auth

import (
	"net/http"
	"time"
)

const CSRFCookieName = "csrf_token"

// CookieConfig holds cookie configuration settings
type CookieConfig struct {
	Domain   string // Empty string = current host only
	Secure   bool   // HTTPS only
	SameSite string // "strict", "lax", or "none"
}

// newCookie builds an HttpOnly cookie scoped to the whole site. A zero ttl yields a
// deletion cookie.
func newCookie(name, value string, ttl time.Duration, expires time.Time, config CookieConfig) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   config.Domain,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	}

	if ttl <= 0 {
		c.Value = ""
		c.MaxAge = -1
		return c
	}

	c.Expires = expires
	c.MaxAge = max(int(ttl.Seconds()), 1)
	return c
}

// SetCSRFTokenCookie sets the double-submit CSRF cookie
func SetCSRFTokenCookie(w http.ResponseWriter, csrfToken string, ttl time.Duration, config CookieConfig) {
	http.SetCookie(w, newCookie(CSRFCookieName, csrfToken, ttl, time.Now().Add(ttl), config))
}

// GetCSRFTokenCookie retrieves the CSRF token from cookies
func GetCSRFTokenCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// parseSameSite converts string to http.SameSite constant
func parseSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
