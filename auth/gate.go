package auth

import (
	"strings"
	"time"
)

// Gate is the authorization decision point: it validates a presented token and
// compares the claim set against the roles a route accepts. It holds no
// mutable state; every request is judged independently.
type Gate struct {
	validator TokenValidator
}

// NewGate creates a Gate over a token validator.
func NewGate(validator TokenValidator) *Gate {
	return &Gate{validator: validator}
}

// Authorize allows a validated claim set through when any of the acceptable
// role slugs matches exactly, case-sensitive. An empty role list only demands
// that the caller authenticated. Roles are flat: admin does not pass a user
// or author gate unless the admin also holds that slug.
func (g *Gate) Authorize(claims *Claims, roles ...string) error {
	if claims == nil {
		return ErrMissingToken
	}

	if claims.HasAnyRole(roles...) {
		return nil
	}

	return forbiddenError(roles)
}

// CheckAccess validates a raw token and authorizes it in one step, judged at
// the current time.
func (g *Gate) CheckAccess(tokenString string, roles ...string) (*Claims, error) {
	return g.CheckAccessAt(tokenString, time.Now(), roles...)
}

// CheckAccessAt is CheckAccess with an explicit evaluation time. A blank
// token is the unauthenticated outcome; validation failures pass through
// unchanged so callers can tell expired from malformed; a validated claim set
// without an acceptable role is the forbidden outcome.
func (g *Gate) CheckAccessAt(tokenString string, now time.Time, roles ...string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	claims, err := g.validator.ValidateAt(tokenString, now)
	if err != nil {
		return nil, err
	}

	if err := g.Authorize(claims, roles...); err != nil {
		return nil, err
	}

	return claims, nil
}

func forbiddenError(roles []string) error {
	clone := ErrForbidden.Clone()
	if clone == nil {
		return ErrForbidden
	}
	clone.Source = ErrForbidden
	return clone.WithMetadata(map[string]any{"required_roles": roles})
}
