package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigepy/erp-api/internal/domain/entity"
	apihttp "github.com/sigepy/erp-api/internal/interfaces/http"
	"github.com/sigepy/erp-api/pkg/jwt"
)

const testSecret = "secreto-de-test"

func newProtectedApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	protected := app.Group("/", apihttp.AuthMiddleware(testSecret))
	protected.Get("/yo", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apihttp.GetUserID(c),
			"role":    apihttp.GetRole(c),
		})
	})
	protected.Get("/solo-admin", apihttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "user-1", role, "erp-api-test", 5)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_TokenValido(t *testing.T) {
	app := newProtectedApp(t)

	req := httptest.NewRequest("GET", "/yo", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, entity.RoleVendedor))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := newProtectedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/yo", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := newProtectedApp(t)

	req := httptest.NewRequest("GET", "/yo", nil)
	req.Header.Set("Authorization", "Basic abc123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	app := newProtectedApp(t)
	token, err := jwt.Generate("otro-secreto", "user-1", entity.RoleAdmin, "erp-api-test", 5)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/yo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := newProtectedApp(t)
	token, err := jwt.Generate(testSecret, "user-1", entity.RoleAdmin, "erp-api-test", -5)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/yo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app := newProtectedApp(t)

	req := httptest.NewRequest("GET", "/solo-admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, entity.RoleAdmin))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/solo-admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, entity.RoleVendedor))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
