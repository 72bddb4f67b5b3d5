package csrf

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid is returned when the token fails verification.
	ErrTokenInvalid = errors.New("csrf token invalid")
	// ErrTokenExpired is returned when the token has expired.
	ErrTokenExpired = errors.New("csrf token expired")
)

// tokenClaims binds a token to the session that requested it.
type tokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the per-session CSRF tokens. Tokens are
// HS256-signed and expire on their own, so nothing is stored per token.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager returns a TokenManager signing with secret.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue returns a fresh token bound to sessionID.
func (m *TokenManager) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature and expiry and that the token was issued for
// sessionID.
func (m *TokenManager) Verify(token, sessionID string) error {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return ErrTokenInvalid
	}
	if claims.SessionID == "" || claims.SessionID != sessionID {
		return ErrTokenInvalid
	}
	return nil
}
