package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agencydesk/creditledger/internal/domain"
)

// Claims represents the JWT claims
type Claims struct {
	UserID   string      `json:"user_id"`
	AgencyID string      `json:"agency_id"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate issues a token for the principal.
func (m *JWTManager) Generate(p domain.Principal) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:   p.UserID,
		AgencyID: p.AgencyID,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify verifies a JWT token and returns the claims
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// Resolve implements usecase.PrincipalResolver.
func (m *JWTManager) Resolve(_ context.Context, token string) (domain.Principal, error) {
	claims, err := m.Verify(token)
	if err != nil {
		return domain.Principal{}, err
	}

	p := domain.Principal{
		UserID:   claims.UserID,
		AgencyID: claims.AgencyID,
		Role:     domain.ParseRole(string(claims.Role)),
	}
	if err := p.Validate(); err != nil {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	if !p.Role.IsValid() {
		return domain.Principal{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidToken, claims.Role)
	}

	return p, nil
}
