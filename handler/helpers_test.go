package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/balta-io/2811/handler"
)

func fiberApp(t *testing.T, ctl handler.Controllers) *fiber.App {
	t.Helper()

	app := fiber.New()
	handler.RegisterRoutes(app, ctl)
	return app
}

func jsonRequest(t *testing.T, app *fiber.App, method, path string, payload any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	parsed := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return res, parsed
}

func putJSON(t *testing.T, app *fiber.App, path string, payload any, token string) (*http.Response, map[string]any) {
	return jsonRequest(t, app, http.MethodPut, path, payload, token)
}

func deletePath(t *testing.T, app *fiber.App, path, token string) (*http.Response, map[string]any) {
	return jsonRequest(t, app, http.MethodDelete, path, nil, token)
}
