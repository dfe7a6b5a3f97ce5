package auth_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balta-io/2811/auth"
)

func newProtectedApp(t *testing.T, ts *auth.TokenService, roles ...string) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Get("/protected",
		auth.RequireRoles(auth.NewGate(ts), roles...),
		func(c *fiber.Ctx) error {
			claims, ok := auth.GetFiberClaims(c, "")
			require.True(t, ok)
			return c.SendString(claims.NameClaim())
		})

	return app
}

func doRequest(t *testing.T, app *fiber.App, authorization string) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}

	res, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	return res, string(body)
}

func TestProtected(t *testing.T) {
	ts := newTestService(t)

	token, err := ts.Issue(alice())
	require.NoError(t, err)

	t.Run("no header is 401", func(t *testing.T) {
		app := newProtectedApp(t, ts, "user")
		res, _ := doRequest(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		app := newProtectedApp(t, ts, "user")
		res, _ := doRequest(t, app, "Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("wrong scheme is 401", func(t *testing.T) {
		app := newProtectedApp(t, ts, "user")
		res, _ := doRequest(t, app, "Basic "+token)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("missing role is 403", func(t *testing.T) {
		app := newProtectedApp(t, ts, "admin")
		res, body := doRequest(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)

		payload := map[string][]string{}
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		assert.NotEmpty(t, payload["errors"])
	})

	t.Run("matching role reaches the handler", func(t *testing.T) {
		app := newProtectedApp(t, ts, "author")
		res, body := doRequest(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "alice@example.com", body)
	})

	t.Run("scheme comparison is case insensitive", func(t *testing.T) {
		app := newProtectedApp(t, ts, "user")
		res, _ := doRequest(t, app, "bearer "+token)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("no roles means any valid credential", func(t *testing.T) {
		app := newProtectedApp(t, ts)
		res, _ := doRequest(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("expired token is 401 not 403", func(t *testing.T) {
		past := time.Now().Add(-3 * time.Hour)
		stale, err := ts.IssueAt(alice(), past)
		require.NoError(t, err)

		app := newProtectedApp(t, ts, "author")
		res, _ := doRequest(t, app, "Bearer "+stale)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		scheme  string
		want    string
		wantErr error
	}{
		{name: "well formed", header: "Bearer abc.def.ghi", scheme: "Bearer", want: "abc.def.ghi"},
		{name: "empty header", header: "", scheme: "Bearer", wantErr: auth.ErrMissingToken},
		{name: "scheme only", header: "Bearer ", scheme: "Bearer", wantErr: auth.ErrTokenMalformed},
		{name: "wrong scheme", header: "Basic abc", scheme: "Bearer", wantErr: auth.ErrTokenMalformed},
		{name: "no scheme", header: "abc.def.ghi", scheme: "Bearer", wantErr: auth.ErrTokenMalformed},
		{name: "lowercase scheme", header: "bearer abc", scheme: "Bearer", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.TokenFromHeader(tt.header, tt.scheme)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
