package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/emregurs3s/karakus-tech-website/internal/auth"
	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()

	api := app.Group("/api", NewAuthMiddleware())
	api.Get("/me", func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"user_id": userID})
	})

	admin := api.Group("/admin", NewRequireRole(domain.RoleAdmin))
	admin.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app
}

func issueToken(t *testing.T, roles []string) string {
	t.Setenv("ACCESS_SECRET", "test-access-secret")
	t.Setenv("REFRESH_SECRET", "test-refresh-secret")

	access, _, err := auth.GenerateTokens(42, roles)
	require.NoError(t, err)
	return access
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/me", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := issueToken(t, []string{domain.RoleCustomer})
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_CustomerBlocked(t *testing.T) {
	token := issueToken(t, []string{domain.RoleCustomer})
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	token := issueToken(t, []string{domain.RoleCustomer, domain.RoleAdmin})
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
