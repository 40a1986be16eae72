// Package auth issues and verifies the bearer tokens that identify API callers.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingUserID = errors.New("invalid token payload")
)

// Claims is the token payload. ID is the owning user's primary key.
type Claims struct {
	ID uint `json:"id,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and validates HS256 tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		now:    time.Now,
	}
}

// Issue returns a signed token for userID and its expiry.
func (i *Issuer) Issue(userID uint) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := Claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates the token signature and expiry and returns the user id it
// carries. A well-formed token without an id yields ErrMissingUserID.
func (i *Issuer) Parse(token string) (uint, error) {
	var claims Claims
	parsed, err := i.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if claims.ID == 0 {
		return 0, ErrMissingUserID
	}
	return claims.ID, nil
}
