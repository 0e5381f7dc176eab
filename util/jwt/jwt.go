// Package jwt issues and verifies the signed tokens handed out at login.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token is expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims are the verified contents of a login token.
type Claims struct {
	jwt.RegisteredClaims
	Uid  int64  `json:"uid"`
	Role string `json:"role"`
	Name string `json:"name"`
}

// Issuer signs time-bounded tokens with a process-wide secret. The secret
// is injected at startup and never rotated at runtime.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer with the given signing secret and token
// lifetime.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token binding the identity claims and an
// expiry.
func (i *Issuer) Issue(uid int64, name, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Uid:  uid,
		Role: role,
		Name: name,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify parses and validates a token. On any failure the returned claims
// are nil; expired tokens map to ErrTokenExpired, everything else to
// ErrTokenInvalid.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	parsed := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, parsed, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if parsed.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	return parsed, nil
}
