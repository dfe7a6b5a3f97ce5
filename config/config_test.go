package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balta-io/2811/auth"
	"github.com/balta-io/2811/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("BLOG_JWT_SECRET", "test-signing-key-0123456789")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, ":3000", cfg.Addr)
		assert.Equal(t, auth.DefaultTokenLifetime, cfg.GetTokenLifetime())
		assert.Equal(t, "test-signing-key-0123456789", cfg.GetSigningKey())
		assert.Empty(t, cfg.GetIssuer())
		assert.Empty(t, cfg.GetAudience())
		assert.Equal(t, auth.DefaultContextKey, cfg.GetContextKey())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("BLOG_ADDR", ":8080")
		t.Setenv("BLOG_TOKEN_LIFETIME", "30m")
		t.Setenv("BLOG_JWT_ISSUER", "blog-api")
		t.Setenv("BLOG_JWT_AUDIENCE", "blog-web, blog-mobile")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 30*time.Minute, cfg.GetTokenLifetime())
		assert.Equal(t, "blog-api", cfg.GetIssuer())
		assert.Equal(t, []string{"blog-web", "blog-mobile"}, cfg.GetAudience())
	})

	t.Run("unparseable lifetime falls back to the default", func(t *testing.T) {
		t.Setenv("BLOG_TOKEN_LIFETIME", "soon")

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, auth.DefaultTokenLifetime, cfg.GetTokenLifetime())
	})

	t.Run("missing signing key fails", func(t *testing.T) {
		t.Setenv("BLOG_JWT_SECRET", "")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("short signing key fails", func(t *testing.T) {
		t.Setenv("BLOG_JWT_SECRET", "short")

		_, err := config.Load()
		assert.Error(t, err)
	})
}
