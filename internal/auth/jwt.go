// Package auth signs and validates the panel session cookie
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "equivalencias"

// ErrEmptySecret is returned when a service is built without a signing key
var ErrEmptySecret = errors.New("jwt secret is empty")

// Claims identifies one panel session
type Claims struct {
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

// Token is a signed session token and its expiry
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// JWTService handles JWT operations
type JWTService struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
	now       func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string, ttl time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{
		secretKey: []byte(secret),
		ttl:       ttl,
		issuer:    issuer,
		now:       time.Now,
	}, nil
}

// TTL returns how long issued tokens live
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given session
func (s *JWTService) Issue(sessionID uuid.UUID) (*Token, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   sessionID.String(),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.SessionID == uuid.Nil {
		return nil, fmt.Errorf("invalid token claims: missing session id")
	}

	return claims, nil
}
