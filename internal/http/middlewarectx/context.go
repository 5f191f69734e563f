package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/codevault/internal/lib/jwt"
	"github.com/magabrotheeeer/codevault/internal/models"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	claimsKey
)

// WithIdentity кладёт личность пользователя и claims его токена в контекст.
func WithIdentity(ctx context.Context, identity models.Identity, claims *jwt.CustomClaims) context.Context {
	ctx = context.WithValue(ctx, identityKey, identity)
	return context.WithValue(ctx, claimsKey, claims)
}

// IdentityFrom возвращает личность аутентифицированного пользователя.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}

// ClaimsFrom возвращает claims токена текущего запроса.
func ClaimsFrom(ctx context.Context) (*jwt.CustomClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*jwt.CustomClaims)
	return claims, ok && claims != nil
}
