package http

import (
	"context"
	"strings"

	"demand-genius/internal/shared/contextkeys"
	"demand-genius/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TenantMiddleware authenticates requests and enforces that the token's
// tenant claim matches the tenant addressed by the path. A token for one
// tenant can never read another tenant's catalog.
type TenantMiddleware struct {
	jwtSecret []byte
	log       logger.Logger
}

func NewTenantMiddleware(jwtSecret string, log logger.Logger) *TenantMiddleware {
	return &TenantMiddleware{
		jwtSecret: []byte(jwtSecret),
		log:       log.WithComponent("tenant_middleware"),
	}
}

// RequestID assigns every request an id, taking the caller's X-Request-ID
// when present, and threads it through the request context for logging.
func (m *TenantMiddleware) RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("X-Request-ID", requestID)
		c.SetUserContext(context.WithValue(c.UserContext(), contextkeys.RequestIDKey, requestID))
		return c.Next()
	}
}

// RequireTenant validates the bearer token and pins the request to the path
// tenant. Requests whose token names a different tenant get a 403, not a
// silent redirect to their own data.
func (m *TenantMiddleware) RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pathTenant := c.Params("tenantID")
		if pathTenant == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "tenant ID is required",
			})
		}

		claimTenant, err := m.tenantFromToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing token",
			})
		}

		if claimTenant != pathTenant {
			m.log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
				"path_tenant":  pathTenant,
				"token_tenant": claimTenant,
			}).Warn("token tenant does not match path tenant")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "token is not valid for this tenant",
			})
		}

		c.SetUserContext(context.WithValue(c.UserContext(), contextkeys.TenantIDKey, pathTenant))
		return c.Next()
	}
}

func (m *TenantMiddleware) tenantFromToken(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fiber.ErrUnauthorized
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", fiber.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	tenantID, ok := claims["tenant_id"].(string)
	if !ok || tenantID == "" {
		return "", fiber.ErrUnauthorized
	}
	return tenantID, nil
}
