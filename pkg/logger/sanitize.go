package logger

import (
	"net/url"
	"strings"
)

// SanitizedEmail masks an email address for logging, keeping the first character of
// the local part and the top-level domain ("u***@*******.com").
func SanitizedEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "[invalid-email]"
	}

	if len(local) > 1 {
		local = local[:1] + strings.Repeat("*", len(local)-1)
	}

	labels := strings.Split(domain, ".")
	for i := 0; i < len(labels)-1; i++ {
		labels[i] = strings.Repeat("*", len(labels[i]))
	}

	return local + "@" + strings.Join(labels, ".")
}

var sensitiveQueryKeys = []string{"password", "token", "secret", "email", "auth", "csrf", "session"}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveQueryKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// RedactQuery replaces the values of credential-like parameters in a raw query string.
// Parameter order and the other values are preserved.
func RedactQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	parts := strings.Split(rawQuery, "&")
	for i, part := range parts {
		rawKey, _, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		if isSensitiveKey(key) {
			parts[i] = rawKey + "=REDACTED"
		}
	}

	return strings.Join(parts, "&")
}
