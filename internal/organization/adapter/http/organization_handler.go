package http

import (
	"orgmanager/internal/organization/usecase"
	apperrors "orgmanager/internal/shared/errors"
	"orgmanager/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// OrganizationHandler exposes the organization lifecycle over HTTP.
type OrganizationHandler struct {
	usecase usecase.OrganizationUsecaseInterface
	logger  logger.Logger
}

// NewOrganizationHandler creates a new organization HTTP handler
func NewOrganizationHandler(uc usecase.OrganizationUsecaseInterface, log logger.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		usecase: uc,
		logger:  log.WithComponent("organization-http"),
	}
}

// RegisterRoutes mounts the lifecycle endpoints. Mutating tenant endpoints
// require the caller's token to match the organization in the path.
func (h *OrganizationHandler) RegisterRoutes(router fiber.Router, requireOwnTenant fiber.Handler) {
	orgs := router.Group("/organizations")
	orgs.Post("/", h.CreateOrganization)
	orgs.Get("/:name", h.GetOrganization)
	orgs.Put("/:name", requireOwnTenant, h.UpdateOrganization)
	orgs.Delete("/:name", requireOwnTenant, h.DeleteOrganization)
	orgs.Post("/:name/documents", requireOwnTenant, h.InsertDocument)
}

// CreateOrganization handles POST /organizations
func (h *OrganizationHandler) CreateOrganization(c *fiber.Ctx) error {
	var req usecase.CreateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request_body",
			"message": "failed to parse request body",
		})
	}

	view, err := h.usecase.CreateOrganization(c.UserContext(), req)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"organization_name": req.OrganizationName,
		}).Errorf("Failed to create organization: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetOrganization handles GET /organizations/:name
func (h *OrganizationHandler) GetOrganization(c *fiber.Ctx) error {
	name := c.Params("name")

	detail, err := h.usecase.GetOrganization(c.UserContext(), name)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(detail)
}

// UpdateOrganization handles PUT /organizations/:name
func (h *OrganizationHandler) UpdateOrganization(c *fiber.Ctx) error {
	name := c.Params("name")

	var settings map[string]interface{}
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request_body",
			"message": "failed to parse request body",
		})
	}
	if len(settings) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "empty_update",
			"message": "update requires at least one setting",
		})
	}

	result, err := h.usecase.UpdateOrganization(c.UserContext(), name, settings)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"organization_name": name,
		}).Errorf("Failed to update organization: %v", err)
		return respondError(c, err)
	}

	return c.JSON(result)
}

// DeleteOrganization handles DELETE /organizations/:name
func (h *OrganizationHandler) DeleteOrganization(c *fiber.Ctx) error {
	name := c.Params("name")

	result, err := h.usecase.DeleteOrganization(c.UserContext(), name)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"organization_name": name,
		}).Errorf("Failed to delete organization: %v", err)
		return respondError(c, err)
	}

	return c.JSON(result)
}

// InsertDocument handles POST /organizations/:name/documents
func (h *OrganizationHandler) InsertDocument(c *fiber.Ctx) error {
	name := c.Params("name")

	var doc map[string]interface{}
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request_body",
			"message": "failed to parse request body",
		})
	}
	if len(doc) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "empty_document",
			"message": "document must not be empty",
		})
	}

	if err := h.usecase.InsertDocument(c.UserContext(), name, doc); err != nil {
		h.logger.WithFields(map[string]interface{}{
			"organization_name": name,
		}).Errorf("Failed to insert document: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "document inserted successfully",
	})
}

// respondError maps application errors onto HTTP status codes and a stable
// error body shape.
func respondError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*apperrors.AppError); ok {
		body := fiber.Map{
			"error":   string(appErr.Type),
			"message": appErr.Message,
		}
		if appErr.Code != "" {
			body["code"] = appErr.Code
		}
		return c.Status(appErr.HTTPCode).JSON(body)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "an unexpected error occurred",
	})
}
