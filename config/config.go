// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"

	"github.com/balta-io/2811/auth"
)

// App is the resolved process configuration. Values are read once at start;
// handlers never touch the environment directly.
type App struct {
	Addr          string
	DSN           string
	SigningKey    string
	TokenLifetime time.Duration
	Issuer        string
	Audience      []string
	ImageDir      string
	AdminEmail    string
	BcryptCost    int
	Debug         bool
}

var _ auth.Config = (*App)(nil)

// Load reads the optional .env file and resolves every setting. A missing
// .env is fine; a missing signing key is not.
func Load() (*App, error) {
	_ = godotenv.Load()

	cfg := &App{
		Addr:          getenv("BLOG_ADDR", ":3000"),
		DSN:           getenv("BLOG_DSN", "file:blog.db?cache=shared&_pragma=foreign_keys(1)"),
		SigningKey:    os.Getenv("BLOG_JWT_SECRET"),
		TokenLifetime: getDuration("BLOG_TOKEN_LIFETIME", auth.DefaultTokenLifetime),
		Issuer:        getenv("BLOG_JWT_ISSUER", ""),
		Audience:      getList("BLOG_JWT_AUDIENCE"),
		ImageDir:      getenv("BLOG_IMAGE_DIR", "public/images"),
		AdminEmail:    getenv("BLOG_ADMIN_EMAIL", ""),
		BcryptCost:    getInt("BLOG_BCRYPT_COST", auth.BcryptCost),
		Debug:         os.Getenv("BLOG_DEBUG") == "true",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate will validate the configuration
func (a App) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Addr, validation.Required),
		validation.Field(&a.DSN, validation.Required),
		validation.Field(&a.SigningKey, validation.Required, validation.Length(16, 0)),
	)
}

func (a *App) GetSigningKey() string {
	return a.SigningKey
}

func (a *App) GetTokenLifetime() time.Duration {
	return a.TokenLifetime
}

func (a *App) GetIssuer() string {
	return a.Issuer
}

func (a *App) GetAudience() []string {
	return a.Audience
}

func (a *App) GetContextKey() string {
	return auth.DefaultContextKey
}

func (a *App) GetAuthScheme() string {
	return auth.DefaultAuthScheme
}

func getenv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return dur
}

func getInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func getList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
