package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal
type Identity interface {
	ID() string
	Username() string
	Email() string
	Roles() []string
}

// Config holds auth options, read once at process start
type Config interface {
	GetSigningKey() string
	GetTokenLifetime() time.Duration
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetAuthScheme() string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, error)
	ClaimsFromToken(token string) (*Claims, error)
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// TokenIssuer issues signed credentials without tying callers to a signing
// implementation.
type TokenIssuer interface {
	Issue(identity Identity) (string, error)
	IssueAt(identity Identity, now time.Time) (string, error)
}

// TokenValidator validates tokens and extracts claims.
type TokenValidator interface {
	Validate(tokenString string) (*Claims, error)
	ValidateAt(tokenString string, now time.Time) (*Claims, error)
}

// DefaultLogger returns the printf fallback logger used when a caller does
// not provide one.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
