package http

import (
	"demand-genius/internal/catalog/domain/model"
	"demand-genius/internal/catalog/usecase"
	"demand-genius/internal/shared/errors"
	"demand-genius/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// CatalogHTTPHandler exposes the catalog query surface over HTTP.
type CatalogHTTPHandler struct {
	usecase usecase.CatalogUsecase
	log     logger.Logger
}

func NewCatalogHTTPHandler(uc usecase.CatalogUsecase, log logger.Logger) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{usecase: uc, log: log.WithComponent("catalog_http")}
}

// RegisterRoutes mounts the catalog endpoints under the given router. All
// routes live beneath the tenant path and require the tenant middleware.
func (h *CatalogHTTPHandler) RegisterRoutes(router fiber.Router, middleware *TenantMiddleware) {
	tenant := router.Group("/tenants/:tenantID", middleware.RequireTenant())

	tenant.Get("/schema", h.GetSchema)
	tenant.Delete("/schema/cache", h.InvalidateSchema)

	content := tenant.Group("/content")
	content.Post("/query", h.QueryContent)
	content.Post("/count", h.CountContent)
	content.Post("/search", h.SearchContent)
	content.Post("/distribution", h.CategoryDistribution)
	content.Post("/gap-analysis", h.GapAnalysis)
}

// distributionRequest names the category to bucket by, an optional value set
// restricting the buckets, and the optional filters narrowing the documents
// considered.
type distributionRequest struct {
	Category string           `json:"category"`
	Values   []string         `json:"values,omitempty"`
	Filters  model.FilterSpec `json:"filters"`
}

// gapAnalysisRequest names the category to analyze plus the optional filters
// narrowing the content considered.
type gapAnalysisRequest struct {
	Category string           `json:"category"`
	Filters  model.FilterSpec `json:"filters"`
}

func (h *CatalogHTTPHandler) GetSchema(c *fiber.Ctx) error {
	schema, err := h.usecase.GetSchema(c.UserContext(), c.Params("tenantID"))
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(schema)
}

func (h *CatalogHTTPHandler) InvalidateSchema(c *fiber.Ctx) error {
	if err := h.usecase.InvalidateSchema(c.UserContext(), c.Params("tenantID")); err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema cache invalidated"})
}

func (h *CatalogHTTPHandler) QueryContent(c *fiber.Ctx) error {
	spec, err := h.parseFilterSpec(c)
	if err != nil {
		return h.renderError(c, err)
	}

	result, err := h.usecase.ListContent(c.UserContext(), c.Params("tenantID"), spec)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(result)
}

func (h *CatalogHTTPHandler) CountContent(c *fiber.Ctx) error {
	spec, err := h.parseFilterSpec(c)
	if err != nil {
		return h.renderError(c, err)
	}

	count, err := h.usecase.CountContent(c.UserContext(), c.Params("tenantID"), spec)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *CatalogHTTPHandler) SearchContent(c *fiber.Ctx) error {
	spec, err := h.parseFilterSpec(c)
	if err != nil {
		return h.renderError(c, err)
	}

	result, err := h.usecase.SearchContent(c.UserContext(), c.Params("tenantID"), spec)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(result)
}

func (h *CatalogHTTPHandler) CategoryDistribution(c *fiber.Ctx) error {
	var req distributionRequest
	if err := c.BodyParser(&req); err != nil {
		return h.renderError(c, errors.NewValidationError("invalid request body").WithCause(err))
	}
	if req.Category == "" {
		return h.renderError(c, errors.NewValidationError("category is required"))
	}

	result, err := h.usecase.CategoryDistribution(c.UserContext(), c.Params("tenantID"), req.Category, req.Values, req.Filters)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(result)
}

func (h *CatalogHTTPHandler) GapAnalysis(c *fiber.Ctx) error {
	var req gapAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return h.renderError(c, errors.NewValidationError("invalid request body").WithCause(err))
	}
	if req.Category == "" {
		return h.renderError(c, errors.NewValidationError("category is required"))
	}

	analysis, err := h.usecase.GapAnalysis(c.UserContext(), c.Params("tenantID"), req.Category, req.Filters)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(analysis)
}

func (h *CatalogHTTPHandler) parseFilterSpec(c *fiber.Ctx) (model.FilterSpec, error) {
	var spec model.FilterSpec
	if len(c.Body()) == 0 {
		return spec, nil
	}
	if err := c.BodyParser(&spec); err != nil {
		return model.FilterSpec{}, errors.NewValidationError("invalid filter specification").
			WithCause(errors.ErrInvalidFilterSpec).
			WithDetail("parse_error", err.Error())
	}
	return spec, nil
}

// renderError maps the error taxonomy onto HTTP responses. Isolation
// violations are logged loudly but surface as a plain internal error.
func (h *CatalogHTTPHandler) renderError(c *fiber.Ctx, err error) error {
	if errors.IsIsolationViolation(err) {
		h.log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"error": err.Error(),
			"path":  c.Path(),
		}).Error("tenant isolation violation")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if appErr, ok := errors.AsAppError(err); ok {
		body := fiber.Map{"error": appErr.Message}
		if appErr.Code != "" {
			body["code"] = appErr.Code
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		return c.Status(appErr.HTTPCode).JSON(body)
	}

	switch {
	case errors.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.IsRetryable(err):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		h.log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"error": err.Error(),
			"path":  c.Path(),
		}).Error("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
