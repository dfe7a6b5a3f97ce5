package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimType identifies the kind of fact a claim asserts about an identity.
type ClaimType string

const (
	// ClaimName carries the user's email; every credential has exactly one.
	ClaimName ClaimType = "name"
	// ClaimRole carries a role slug; a credential has one per assigned role.
	ClaimRole ClaimType = "role"
)

// Claim is a typed fact asserted about an identity.
type Claim struct {
	Type  ClaimType `json:"type"`
	Value string    `json:"value"`
}

// BuildClaims derives the canonical claim set for an identity: one name claim
// with the email, then one role claim per role slug in attachment order.
// Duplicate slugs are kept; deduplication is the role store's business, not
// ours. The function is pure and performs no I/O.
func BuildClaims(identity Identity) ([]Claim, error) {
	if identity == nil || identity.Email() == "" {
		return nil, ErrInvalidUser
	}

	roles := identity.Roles()
	result := make([]Claim, 0, 1+len(roles))
	result = append(result, Claim{Type: ClaimName, Value: identity.Email()})
	for _, slug := range roles {
		result = append(result, Claim{Type: ClaimRole, Value: slug})
	}

	return result, nil
}

// Claims is the signed JWT payload. Role order survives serialization since
// roles travel as a JSON array.
type Claims struct {
	jwt.RegisteredClaims
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// Subject returns the subject claim
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID carried in the subject claim.
func (c *Claims) UserID() string {
	return c.Subject()
}

// NameClaim returns the single name claim value, the user's email.
func (c *Claims) NameClaim() string {
	return c.Name
}

// RoleClaims returns the role slugs in issuance order.
func (c *Claims) RoleClaims() []string {
	return c.Roles
}

// HasRole checks for an exact, case-sensitive slug match. Roles are flat:
// no slug implies another.
func (c *Claims) HasRole(role string) bool {
	for _, slug := range c.Roles {
		if slug == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether any of the given slugs is present. An empty
// argument list means no role is required and always matches.
func (c *Claims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if c.HasRole(role) {
			return true
		}
	}
	return false
}

// ClaimSet reconstructs the ordered (type, value) pairs the token was issued
// with.
func (c *Claims) ClaimSet() []Claim {
	result := make([]Claim, 0, 1+len(c.Roles))
	if c.Name != "" {
		result = append(result, Claim{Type: ClaimName, Value: c.Name})
	}
	for _, slug := range c.Roles {
		result = append(result, Claim{Type: ClaimRole, Value: slug})
	}
	return result
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
