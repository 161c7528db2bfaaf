package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// GenerateCSRFToken returns 32 random bytes, hex encoded.
func GenerateCSRFToken() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(randomBytes), nil
}

// CSRFTokensMatch compares the submitted token to the cookie value in constant time.
func CSRFTokensMatch(submitted, cookie string) bool {
	if submitted == "" || cookie == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(cookie)) == 1
}
