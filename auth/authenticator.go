package auth

import (
	"context"
	"reflect"
)

// Auther turns verified identities into signed credentials. Verifying that a
// caller is who they claim to be belongs to the IdentityProvider; the Auther
// only orchestrates verification, claim building, and issuance.
type Auther struct {
	provider IdentityProvider
	tokens   *TokenService
	logger   Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, cfg Config) *Auther {
	return &Auther{
		provider: provider,
		tokens:   NewTokenService(cfg),
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() *TokenService {
	return s.tokens
}

// Login verifies the identifier/password pair against the identity provider
// and issues a credential carrying the identity's claim set.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error: %s", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrIdentityNotFound
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		s.logger.Error("Login token issuance error: %s", err)
		return "", err
	}

	return token, nil
}

// ClaimsFromToken validates a presented credential and returns its claim set.
func (s *Auther) ClaimsFromToken(raw string) (*Claims, error) {
	return s.tokens.Validate(raw)
}
