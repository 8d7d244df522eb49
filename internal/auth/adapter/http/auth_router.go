package http

import (
	"orgmanager/internal/auth/usecase"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for admin authentication
type AuthHTTPHandler struct {
	usecase usecase.AuthUsecaseInterface
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface) *AuthHTTPHandler {
	return &AuthHTTPHandler{usecase: uc}
}

// SetupAuthRoutes registers the admin authentication routes
func (h *AuthHTTPHandler) SetupAuthRoutes(router fiber.Router) {
	router.Post("/login", h.Login)
}

// Login handles admin login
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and password are required",
		})
	}

	response, err := h.usecase.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(response)
}
