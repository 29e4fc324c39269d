package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shortly/internal/middleware"
	"shortly/internal/security"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func probeApp(tokens *security.TokenIssuer) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Authenticate(tokens))
	app.Get("/public", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user": middleware.UserID(c)})
	})
	app.Get("/private", middleware.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user": middleware.UserID(c)})
	})
	return app
}

func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	app := probeApp(security.NewTokenIssuer("test_jwt_secret"))

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthenticate_BadSchemeRejected(t *testing.T) {
	app := probeApp(security.NewTokenIssuer("test_jwt_secret"))

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthenticate_InvalidTokenRejected(t *testing.T) {
	app := probeApp(security.NewTokenIssuer("test_jwt_secret"))

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthenticate_ValidTokenAttachesIdentity(t *testing.T) {
	tokens := security.NewTokenIssuer("test_jwt_secret")
	app := probeApp(tokens)

	token, err := tokens.Issue("user-123")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthRequired_RejectsAnonymous(t *testing.T) {
	app := probeApp(security.NewTokenIssuer("test_jwt_secret"))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
