// Package auth issues and verifies the bearer tokens used for the
// websocket handshake and the REST layer.
package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"pingdm/backend/internal/config"
)

// ErrInvalidToken covers missing, malformed, badly signed and expired
// tokens. The gateway treats it as a handshake rejection.
var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier validates a handshake credential and returns the bound user
// identity. Injected into the gateway so tests can stub it.
type Verifier interface {
	Verify(token string) (string, error)
}

// TokenService is the full credential surface the gateway consumes:
// issuing on login plus verification on every handshake and request.
type TokenService interface {
	Verifier
	Issue(userID string) (string, error)
}

// JWTService signs and verifies HS256 tokens carrying the user ID.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret), ttl: 72 * time.Hour}
}

// Issue creates a signed token for the given user ID.
func (s *JWTService) Issue(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.ttl).Unix(),
		"iss":     config.TokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses the token and returns the user_id claim.
func (s *JWTService) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
