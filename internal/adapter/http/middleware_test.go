package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateApp(allowed ...string) *fiber.App {
	app := fiber.New()
	app.Get("/ping", AccessGate(allowed), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestAccessGate_AllowsListedVerifiedEmail(t *testing.T) {
	app := gateApp("alice@example.com")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Auth-Email", "Alice@Example.com") // case-insensitive
	req.Header.Set("X-Auth-Email-Verified", "true")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAccessGate_RejectsUnlistedEmail(t *testing.T) {
	app := gateApp("alice@example.com")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Auth-Email", "mallory@example.com")
	req.Header.Set("X-Auth-Email-Verified", "true")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestAccessGate_RejectsMissingOrUnverifiedEmail(t *testing.T) {
	app := gateApp("alice@example.com")

	// no identity headers at all
	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	// listed but unverified
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Auth-Email", "alice@example.com")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestAccessGate_EmptyAllowListDeniesEveryone(t *testing.T) {
	app := gateApp()

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Auth-Email", "alice@example.com")
	req.Header.Set("X-Auth-Email-Verified", "true")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}
