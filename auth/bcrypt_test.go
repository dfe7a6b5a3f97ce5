package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balta-io/2811/auth"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret", hash)

	t.Run("round trip", func(t *testing.T) {
		assert.NoError(t, auth.ComparePasswordAndHash("s3cret", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("nope", hash)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		_, err := auth.HashPassword("")
		assert.ErrorIs(t, err, auth.ErrNoEmptyString)
	})
}

func TestRandomPassword(t *testing.T) {
	a := auth.RandomPassword()
	b := auth.RandomPassword()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Backend", "backend"},
		{"Go & Cloud", "go-cloud"},
		{"  Mobile Dev  ", "mobile-dev"},
		{"C#", "c"},
		{"already-a-slug", "already-a-slug"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, auth.Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}
