package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hrstack/staff-portal-api/internal/models"
)

// ErrInvalidToken covers malformed tokens, signature mismatches and expiry.
var ErrInvalidToken = errors.New("token is not valid")

// IdentityClaims is the bearer-token payload: just enough to refetch the
// identity and check the tier.
type IdentityClaims struct {
	ID       uint64      `json:"id"`
	Role     models.Role `json:"role"`
	Username string      `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless bearer tokens. There is no
// revocation; compromise is bounded only by the expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. The secret is configuration
// supplied and mandatory; config.Load refuses to start without it.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token encoding the identity's id, role and username.
func (s *TokenService) Issue(identity models.Identity) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		ID:       identity.GetID(),
		Role:     identity.GetRole(),
		Username: identity.GetUsername(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (s *TokenService) Verify(tokenStr string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, known := models.ParseRole(string(claims.Role)); !known {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
