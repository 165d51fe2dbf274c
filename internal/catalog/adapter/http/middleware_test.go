package http_test

import (
	"net/http/httptest"
	"testing"
	"time"

	catalogHTTP "demand-genius/internal/catalog/adapter/http"
	"demand-genius/internal/shared/logger"
	"demand-genius/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiddlewareApp(t *testing.T) *fiber.App {
	t.Helper()
	middleware := catalogHTTP.NewTenantMiddleware(testSecret, logger.NewLogger())

	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Get("/tenants/:tenantID/ping", middleware.RequireTenant(), func(c *fiber.Ctx) error {
		tenantID, err := utils.GetTenantIDFromContext(c.UserContext())
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"tenant": tenantID})
	})
	return app
}

func TestRequireTenantAcceptsMatchingToken(t *testing.T) {
	app := newMiddlewareApp(t)

	req := httptest.NewRequest("GET", "/tenants/tenant-a/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tenantToken(t, "tenant-a"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireTenantRejectsMismatchedTenant(t *testing.T) {
	app := newMiddlewareApp(t)

	req := httptest.NewRequest("GET", "/tenants/tenant-a/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tenantToken(t, "tenant-b"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireTenantRejectsMissingToken(t *testing.T) {
	app := newMiddlewareApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/tenants/tenant-a/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireTenantRejectsForgedToken(t *testing.T) {
	app := newMiddlewareApp(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"tenant_id": "tenant-a",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/tenants/tenant-a/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireTenantRejectsExpiredToken(t *testing.T) {
	app := newMiddlewareApp(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"tenant_id": "tenant-a",
		"exp":       time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/tenants/tenant-a/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequestIDPropagated(t *testing.T) {
	app := newMiddlewareApp(t)

	req := httptest.NewRequest("GET", "/tenants/tenant-a/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tenantToken(t, "tenant-a"))
	req.Header.Set("X-Request-ID", "req-123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))

	// A fresh id is minted when the caller sends none.
	req2 := httptest.NewRequest("GET", "/tenants/tenant-a/ping", nil)
	req2.Header.Set("Authorization", "Bearer "+tenantToken(t, "tenant-a"))

	resp2, err := app.Test(req2)
	require.NoError(t, err)
	assert.NotEmpty(t, resp2.Header.Get("X-Request-ID"))
}
