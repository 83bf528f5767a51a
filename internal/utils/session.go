package utils

import (
	"errors"
	"fmt"
	"time"

	"loan_predictor/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims carries the typed session fields inside a signed token
type SessionClaims struct {
	Authenticated bool          `json:"authenticated"`
	Username      string        `json:"username"`
	Flashes       []model.Flash `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// SessionUtil signs and validates session tokens
type SessionUtil struct {
	secretKey       string
	expirationHours int64
}

// NewSessionUtil creates a new SessionUtil
func NewSessionUtil(secretKey string, expirationHours int64) *SessionUtil {
	return &SessionUtil{secretKey: secretKey, expirationHours: expirationHours}
}

// MaxAge is the lifetime of an issued token
func (su *SessionUtil) MaxAge() time.Duration {
	return time.Hour * time.Duration(su.expirationHours)
}

// Encode signs the session into a token string
func (su *SessionUtil) Encode(sess *model.Session) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Authenticated: sess.Authenticated,
		Username:      sess.Username,
		Flashes:       sess.Flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(su.MaxAge())),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   sess.Username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(su.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return tokenString, nil
}

// Decode validates the token signature and expiry and returns the session it carries
func (su *SessionUtil) Decode(tokenString string) (*model.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(su.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	return &model.Session{
		Authenticated: claims.Authenticated,
		Username:      claims.Username,
		Flashes:       claims.Flashes,
	}, nil
}
