package auth

import (
	"context"
	"time"
)

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer firma un token para claims, válido por ttl.
type TokenIssuer interface {
	Issue(claims Claims, ttl time.Duration) (string, error)
}
