package auth

import (
	"fmt"

	authhttp "orgmanager/internal/auth/adapter/http"
	"orgmanager/internal/auth/adapter/security"
	"orgmanager/internal/auth/config"
	"orgmanager/internal/auth/domain/repository"
	"orgmanager/internal/auth/usecase"
	orgrepo "orgmanager/internal/organization/domain/repository"
	"orgmanager/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthModule represents the complete admin authentication module
type AuthModule struct {
	credentials repository.CredentialService
	tokenSvc    repository.TokenService
	usecase     usecase.AuthUsecaseInterface
	handler     *authhttp.AuthHTTPHandler
	config      *config.Config
}

// NewAuthModule creates a new authentication module instance
func NewAuthModule(orgs orgrepo.OrganizationRepository, cfg *config.Config, log logger.Logger) (*AuthModule, error) {
	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	creds := security.NewBcryptCredentialService(cfg.BcryptCost)
	authUsecase := usecase.NewAuthUsecase(orgs, creds, tokenSvc, log)
	handler := authhttp.NewAuthHTTPHandler(authUsecase)

	return &AuthModule{
		credentials: creds,
		tokenSvc:    tokenSvc,
		usecase:     authUsecase,
		handler:     handler,
		config:      cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupAuthRoutes(router)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetCredentialService returns the credential service for external access
func (am *AuthModule) GetCredentialService() repository.CredentialService {
	return am.credentials
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return authhttp.NewAuthMiddleware(am.usecase)
}
