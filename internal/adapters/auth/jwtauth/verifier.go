// Package jwtauth firma y verifica los bearer tokens del devapi (HS256).
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pet-care-portal/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNotConfigured = errors.New("jwt secret not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

const DefaultTTL = 24 * time.Hour

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier implementa auth.AuthVerifier y auth.TokenIssuer con un secreto compartido.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(strings.TrimSpace(secret)),
		issuer: strings.TrimSpace(issuer),
		now:    time.Now,
	}
}

func (v *Verifier) Issue(c auth.Claims, ttl time.Duration) (string, error) {
	if v == nil || len(v.secret) == 0 {
		return "", ErrNotConfigured
	}
	if c.UserID <= 0 {
		return "", errors.New("claims missing user id")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := v.now()
	tc := tokenClaims{
		Email: c.Email,
		Role:  c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(c.UserID, 10),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(v.secret)
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	uid, err := strconv.ParseInt(tc.Subject, 10, 64)
	if err != nil || uid <= 0 {
		return auth.Claims{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return auth.Claims{UserID: uid, Email: tc.Email, Role: tc.Role}, nil
}

var (
	_ auth.AuthVerifier = (*Verifier)(nil)
	_ auth.TokenIssuer  = (*Verifier)(nil)
)
