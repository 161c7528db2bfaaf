package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BradenHooton/solutionshub/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

// SessionUser is the identity carried in the session cookie.
type SessionUser struct {
	UserName     string              `json:"userName"`
	Email        string              `json:"email"`
	LoginHistory []models.LoginEvent `json:"loginHistory"`
}

// SessionClaims is the signed payload of the session cookie.
type SessionClaims struct {
	User SessionUser `json:"user"`
	jwt.RegisteredClaims
}

type SessionConfig struct {
	Secret         string
	CookieName     string
	Duration       time.Duration
	ActiveDuration time.Duration
	Cookie         CookieConfig
}

// SessionManager issues and validates HS256-signed session cookies. A session lives
// for Duration and is pushed out by ActiveDuration whenever it is used with less than
// ActiveDuration left.
type SessionManager struct {
	secret         []byte
	cookieName     string
	duration       time.Duration
	activeDuration time.Duration
	cookie         CookieConfig
	now            func() time.Time
}

func NewSessionManager(cfg SessionConfig) *SessionManager {
	name := cfg.CookieName
	if name == "" {
		name = "session"
	}
	return &SessionManager{
		secret:         []byte(cfg.Secret),
		cookieName:     name,
		duration:       cfg.Duration,
		activeDuration: cfg.ActiveDuration,
		cookie:         cfg.Cookie,
		now:            time.Now,
	}
}

func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// Issue starts a new session for user and writes the cookie.
func (sm *SessionManager) Issue(w http.ResponseWriter, user SessionUser) (*SessionClaims, error) {
	now := sm.now()
	claims := &SessionClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.UserName,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.duration)),
		},
	}

	if err := sm.write(w, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Parse reads and validates the session cookie on r.
func (sm *SessionManager) Parse(r *http.Request) (*SessionClaims, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (any, error) {
		return sm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(sm.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.User.UserName == "" {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// Refresh extends the session by ActiveDuration when less than ActiveDuration remains.
// It reports whether the cookie was rewritten.
func (sm *SessionManager) Refresh(w http.ResponseWriter, claims *SessionClaims) (bool, error) {
	if claims.ExpiresAt == nil || sm.activeDuration <= 0 {
		return false, nil
	}

	remaining := claims.ExpiresAt.Sub(sm.now())
	if remaining >= sm.activeDuration {
		return false, nil
	}

	claims.ExpiresAt = jwt.NewNumericDate(claims.ExpiresAt.Add(sm.activeDuration))
	if err := sm.write(w, claims); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes the session cookie.
func (sm *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, newCookie(sm.cookieName, "", 0, time.Time{}, sm.cookie))
}

func (sm *SessionManager) write(w http.ResponseWriter, claims *SessionClaims) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(sm.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	expires := claims.ExpiresAt.Time
	http.SetCookie(w, newCookie(sm.cookieName, signed, expires.Sub(sm.now()), expires, sm.cookie))
	return nil
}
