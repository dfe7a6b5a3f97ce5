package auth

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidUser    = "auth_invalid_user"
	TextCodeSigningFailure = "auth_signing_failure"
	TextCodeMissingToken   = "auth_token_missing"
	TextCodeTokenMalformed = "auth_token_malformed"
	TextCodeTokenSignature = "auth_token_signature"
	TextCodeTokenExpired   = "auth_token_expired"
	TextCodeTokenIssuer    = "auth_token_issuer"
	TextCodeTokenAudience  = "auth_token_audience"
	TextCodeForbidden      = "auth_forbidden"
	TextCodeBadCredentials = "auth_bad_credentials"
)

// ErrInvalidUser is returned when a claim set cannot be built, e.g. the user
// record carries no email.
var ErrInvalidUser = errors.New("identity has no usable name claim", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidUser).
	WithCode(errors.CodeBadRequest)

// ErrSigning is returned when the issuer is misconfigured or signing fails.
// This is fatal configuration, not a retryable condition.
var ErrSigning = errors.New("unable to sign credential", errors.CategoryInternal).
	WithTextCode(TextCodeSigningFailure).
	WithCode(errors.CodeInternal)

// ErrMissingToken is returned when no credential was presented at all.
var ErrMissingToken = errors.New("missing authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeMissingToken).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for any token that cannot be parsed.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignature is returned when the signature does not verify.
var ErrTokenSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when the credential is past its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenIssuer is returned when the iss claim does not match configuration.
var ErrTokenIssuer = errors.New("token issuer is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenIssuer).
	WithCode(errors.CodeUnauthorized)

// ErrTokenAudience is returned when the aud claim does not match configuration.
var ErrTokenAudience = errors.New("token audience is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenAudience).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when a validated claim set lacks the required role.
var ErrForbidden = errors.New("insufficient role for resource", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrMismatchedHashAndPassword is the credential check failure. We return the
// same error for unknown identifiers so callers cannot probe for accounts.
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("auth_identity_not_found").
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithTextCode("auth_empty_value").
	WithCode(errors.CodeBadRequest)

// TextCode extracts the stable text code from an error, or "" when the error
// does not carry one.
func TextCode(err error) string {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return ""
	}
	return richErr.TextCode
}

func hasTextCode(err error, code string) bool {
	return err != nil && TextCode(err) == code
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsMalformedError will check for unparseable tokens
func IsMalformedError(err error) bool {
	return hasTextCode(err, TextCodeTokenMalformed)
}

// IsAuthError reports whether the failure should surface as a 401: the caller
// is not authenticated, whatever the specific reason.
func IsAuthError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth
}

// IsForbiddenError reports whether the caller authenticated but lacks the
// required role, the 403-equivalent outcome.
func IsForbiddenError(err error) bool {
	return hasTextCode(err, TextCodeForbidden)
}
