package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

const (
	// DefaultContextKey is the Locals key protected handlers read claims from.
	DefaultContextKey = "claims"
	// DefaultAuthScheme is the Authorization header scheme we accept.
	DefaultAuthScheme = "Bearer"
)

// MiddlewareConfig controls the protected route middleware.
type MiddlewareConfig struct {
	Gate *Gate
	// ContextKey is the Locals key claims are stored under. Defaults to
	// DefaultContextKey.
	ContextKey string
	// AuthScheme prefixes the credential in the Authorization header.
	// Defaults to DefaultAuthScheme.
	AuthScheme string
	// ErrorHandler converts gate failures into responses. The default maps
	// go-errors codes onto statuses and renders a bare error envelope.
	ErrorHandler func(c *fiber.Ctx, err error) error
	Logger       Logger
}

// Protected returns a fiber middleware enforcing the gate for a route. With
// no roles the route only requires a valid credential; with roles it applies
// any-of semantics over exact slug matches.
func Protected(cfg MiddlewareConfig, roles ...string) fiber.Handler {
	if cfg.Gate == nil {
		panic("auth: Protected middleware requires a Gate")
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = DefaultAuthScheme
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = makeGateErrorHandler(cfg.Logger)
	}

	return func(c *fiber.Ctx) error {
		raw, err := TokenFromHeader(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.Gate.CheckAccess(raw, roles...)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)
		c.SetUserContext(WithClaimsContext(c.UserContext(), claims))

		return c.Next()
	}
}

// RequireRoles is the common case: gate a route on role slugs with the
// default lookup and error handling.
func RequireRoles(gate *Gate, roles ...string) fiber.Handler {
	return Protected(MiddlewareConfig{Gate: gate}, roles...)
}

// TokenFromHeader extracts the raw credential from an Authorization header
// value. The scheme comparison is case-insensitive.
func TokenFromHeader(header, scheme string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", ErrTokenMalformed
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}

// GetFiberClaims extracts validated Claims stored by the middleware.
func GetFiberClaims(c *fiber.Ctx, key string) (*Claims, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*Claims)
	return claims, ok
}

func makeGateErrorHandler(logger Logger) func(c *fiber.Ctx, err error) error {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryAuth, "invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		status := richErr.Code
		if status < fiber.StatusBadRequest {
			status = fiber.StatusUnauthorized
		}

		logger.Info("Protected route rejected %s: %s (%s)", c.OriginalURL(), richErr.Message, richErr.TextCode)

		return c.Status(status).JSON(fiber.Map{
			"errors": []string{richErr.Message},
		})
	}
}
