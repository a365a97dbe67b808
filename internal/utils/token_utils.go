package utils

import (
	"errors"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	Role       domain.Role `json:"role"`
	BusinessID string      `json:"business_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the caller they describe.
func (c SessionClaims) Actor() domain.Actor {
	return domain.Actor{UserID: c.Subject, BusinessID: c.BusinessID, Role: c.Role}
}

// GenerateSessionToken signs a new HS256 session token for user and returns it with its expiry.
func GenerateSessionToken(user domain.User, secret string, expiryDuration time.Duration, issuer string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(expiryDuration)
	claims := SessionClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if user.BusinessID != nil {
		claims.BusinessID = *user.BusinessID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseSessionToken parses a token string, validates its signature and standard claims.
func ParseSessionToken(tokenString string, secretKey string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err // This will include errors like token expired, signature invalid, etc.
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, errors.New("session token is missing subject or role")
	}
	return claims, nil
}
