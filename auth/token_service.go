package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService issues and validates the blog's signed credentials. It reads
// its key and temporal configuration once at construction and never mutates
// them, so a single instance serves concurrent requests without locking.
type TokenService struct {
	signingKey []byte
	lifetime   time.Duration
	issuer     string
	audience   jwt.ClaimStrings
}

var (
	_ TokenIssuer    = (*TokenService)(nil)
	_ TokenValidator = (*TokenService)(nil)
)

// DefaultTokenLifetime is used when configuration carries no lifetime.
const DefaultTokenLifetime = 2 * time.Hour

// NewTokenService creates a TokenService from process configuration.
func NewTokenService(cfg Config) *TokenService {
	lifetime := cfg.GetTokenLifetime()
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}

	var aud jwt.ClaimStrings
	if audience := cfg.GetAudience(); len(audience) > 0 {
		aud = make(jwt.ClaimStrings, len(audience))
		copy(aud, audience)
	}

	return &TokenService{
		signingKey: []byte(cfg.GetSigningKey()),
		lifetime:   lifetime,
		issuer:     cfg.GetIssuer(),
		audience:   aud,
	}
}

// Lifetime returns the configured credential lifetime.
func (ts *TokenService) Lifetime() time.Duration {
	return ts.lifetime
}

// Issue derives the identity's claim set and signs it with issuance time now.
func (ts *TokenService) Issue(identity Identity) (string, error) {
	return ts.IssueAt(identity, time.Now())
}

// IssueAt is Issue with an explicit issuance time.
func (ts *TokenService) IssueAt(identity Identity, now time.Time) (string, error) {
	set, err := BuildClaims(identity)
	if err != nil {
		return "", err
	}

	var subject string
	if identity != nil {
		subject = identity.ID()
	}

	return ts.IssueClaimSet(subject, set, now)
}

// IssueClaimSet signs an already built claim set. The set must contain exactly
// one name claim; role claims keep their order in the credential.
func (ts *TokenService) IssueClaimSet(subject string, set []Claim, now time.Time) (string, error) {
	var name string
	var roles []string

	for _, claim := range set {
		switch claim.Type {
		case ClaimName:
			if name != "" {
				return "", errors.New("claim set carries more than one name claim", errors.CategoryBadInput).
					WithTextCode(TextCodeInvalidUser).
					WithCode(errors.CodeBadRequest)
			}
			name = claim.Value
		case ClaimRole:
			roles = append(roles, claim.Value)
		}
	}

	if name == "" {
		return "", ErrInvalidUser
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.lifetime)),
		},
		Name:  name,
		Roles: roles,
	}

	return ts.Sign(claims)
}

// Sign signs arbitrary claims using the configured signing key.
func (ts *TokenService) Sign(claims *Claims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	if len(ts.signingKey) == 0 {
		return "", signingError(errors.New("signing key is not configured", errors.CategoryInternal))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", signingError(err)
	}

	return signedString, nil
}

// Validate parses and validates a token string against the current time.
func (ts *TokenService) Validate(tokenString string) (*Claims, error) {
	return ts.ValidateAt(tokenString, time.Now())
}

// ValidateAt verifies signature, expiry, and configured issuer/audience as of
// now, and reconstructs the claim set. Any parse failure comes back as a
// typed error, never a panic, whatever bytes the caller presents.
func (ts *TokenService) ValidateAt(tokenString string, now time.Time) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		var parsed *Claims
		if token != nil {
			parsed, _ = token.Claims.(*Claims)
		}
		return nil, ts.mapValidationError(err, parsed)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// mapValidationError translates jwt sentinel errors into the package taxonomy.
// The parser only requires claims the service configured checks for, so a
// required-claim failure is attributed to whichever of iss/aud the presented
// token lacks.
func (ts *TokenService) mapValidationError(err error, claims *Claims) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrTokenIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrTokenAudience
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		if ts.issuer != "" && (claims == nil || claims.Issuer == "") {
			return ErrTokenIssuer
		}
		if len(ts.audience) > 0 {
			return ErrTokenAudience
		}
		fallthrough
	default:
		return errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(ErrTokenMalformed.Code)
	}
}

func signingError(err error) error {
	return errors.Wrap(err, ErrSigning.Category, ErrSigning.Message).
		WithTextCode(ErrSigning.TextCode).
		WithCode(ErrSigning.Code)
}
