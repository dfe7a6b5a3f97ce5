package auth

import (
	"context"
)

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the validated Claims in the given context
func WithClaimsContext(r context.Context, claims *Claims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the Claims from the standard context
func GetClaims(ctx context.Context) (*Claims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*Claims)
	return raw, ok
}

// HasRole is a convenience check against the claims stored in the context.
// A missing claim set never authorizes anything.
func HasRole(ctx context.Context, role string) bool {
	claims, ok := GetClaims(ctx)
	if !ok {
		return false
	}
	return claims.HasRole(role)
}
