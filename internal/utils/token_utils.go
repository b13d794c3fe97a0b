package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
)

// TokenUse marks what a token may be redeemed for.
type TokenUse string

const (
	TokenUseAccess  TokenUse = "access"
	TokenUseRefresh TokenUse = "refresh"
)

// ErrTokenUseMismatch is returned when a token of one use is presented as the other.
var ErrTokenUseMismatch = errors.New("token use does not match")

// Claims is the JWT payload shared by access and refresh tokens. Use tells
// them apart even when both are signed with the same secret.
type Claims struct {
	Email string   `json:"email"`
	Role  string   `json:"role"`
	Use   TokenUse `json:"typ"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an HS256 token for the given identity. Every token gets a
// random jti, so two tokens minted in the same second never collide.
func GenerateJWT(identity domain.TokenClaims, use TokenUse, secret string, ttl time.Duration, issuer string) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("signing secret is empty")
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Email: identity.Email,
		Role:  string(identity.Role),
		Use:   use,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAndValidateJWT parses a JWT token string, validates its signature and standard claims,
// and checks it was minted for the expected use.
// It returns the identity if the token is valid, or an error otherwise.
func ParseAndValidateJWT(tokenString string, use TokenUse, secret string) (*domain.TokenClaims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Use != use {
		return nil, ErrTokenUseMismatch
	}
	if claims.Subject == "" {
		return nil, errors.New("token subject is empty")
	}

	return &domain.TokenClaims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   domain.Role(claims.Role),
	}, nil
}
