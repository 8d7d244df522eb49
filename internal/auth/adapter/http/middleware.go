package http

import (
	"errors"
	"strings"

	"orgmanager/internal/auth/usecase"
	"orgmanager/internal/shared/contextkeys"
	apperrors "orgmanager/internal/shared/errors"
	"orgmanager/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	usecase usecase.AuthUsecaseInterface
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface) *AuthMiddleware {
	return &AuthMiddleware{usecase: uc}
}

// RequestID middleware
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// RequireOwnTenant resolves the bearer token to a live tenant identity and
// rejects callers targeting any organization other than their own. The target
// organization name is read from the named route parameter.
func (m *AuthMiddleware) RequireOwnTenant(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := m.extractToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		caller, err := m.usecase.ResolveCaller(c.UserContext(), token)
		if err != nil {
			return respondError(c, err)
		}

		if err := m.usecase.AuthorizeOwnTenant(caller, c.Params(param)); err != nil {
			return respondError(c, err)
		}

		ctx := c.UserContext()
		ctx = utils.WithOrganizationID(ctx, caller.OrganizationID)
		ctx = utils.WithOrganizationName(ctx, caller.OrganizationName)
		ctx = utils.WithAdminEmail(ctx, caller.Email)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// extractToken extracts the bearer token from the Authorization header
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}
	return "", fiber.NewError(fiber.StatusUnauthorized, "no authentication token found")
}

// respondError maps an application error onto its HTTP status and message
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.HTTPCode).JSON(fiber.Map{
			"error": appErr.Message,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
