package usecase

import (
	"context"
	"errors"

	authrepo "orgmanager/internal/auth/domain/repository"
	"orgmanager/internal/organization/domain/model"
	orgrepo "orgmanager/internal/organization/domain/repository"
	apperrors "orgmanager/internal/shared/errors"
	"orgmanager/internal/shared/logger"
)

// invalidCredentialsMessage is intentionally identical for unknown email and
// wrong password so a caller cannot probe which one failed.
const invalidCredentialsMessage = "invalid email or password"

// AuthUsecaseInterface defines the contract for admin authentication and
// tenant authorization.
type AuthUsecaseInterface interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ResolveCaller(ctx context.Context, tokenString string) (*CallerIdentity, error)
	AuthorizeOwnTenant(caller *CallerIdentity, targetName string) error
}

// LoginRequest represents the admin login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token plus tenant identifiers
type LoginResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	OrganizationName string `json:"organization_name"`
	OrganizationID   string `json:"organization_id"`
}

// CallerIdentity is the live tenant identity behind a valid token. It is
// always sourced from the registry, never solely from token claims, so a
// deleted or renamed tenant is reflected immediately.
type CallerIdentity struct {
	OrganizationID   string
	OrganizationName string
	Email            string
	CollectionName   string
}

// AuthUsecase implements admin authentication against the tenant registry.
type AuthUsecase struct {
	orgs     orgrepo.OrganizationRepository
	creds    authrepo.CredentialService
	tokenSvc authrepo.TokenService
	logger   logger.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	orgs orgrepo.OrganizationRepository,
	creds authrepo.CredentialService,
	tokenSvc authrepo.TokenService,
	log logger.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		orgs:     orgs,
		creds:    creds,
		tokenSvc: tokenSvc,
		logger:   log.WithComponent("auth"),
	}
}

// Login authenticates an organization admin and issues a token carrying the
// tenant identity.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	org, err := uc.orgs.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrOrganizationNotFound) {
			return nil, apperrors.NewUnauthorizedError(invalidCredentialsMessage)
		}
		return nil, apperrors.NewStoreUnavailableError("failed to look up admin").WithCause(err)
	}

	if err := uc.creds.Verify(org.PasswordHash, req.Password); err != nil {
		return nil, apperrors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, org.Email, org.ID.Hex(), org.OrganizationName)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate token").WithCause(err)
	}

	uc.logger.WithFields(map[string]interface{}{
		"organization_name": org.OrganizationName,
	}).Info("Admin authenticated")

	return &LoginResponse{
		AccessToken:      token,
		TokenType:        "bearer",
		OrganizationName: org.OrganizationName,
		OrganizationID:   org.ID.Hex(),
	}, nil
}

// ResolveCaller validates a token and re-fetches the live tenant record. A
// token for a since-deleted tenant fails with NotFound, not Unauthorized.
func (uc *AuthUsecase) ResolveCaller(ctx context.Context, tokenString string) (*CallerIdentity, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token").WithCause(err)
	}

	if claims.OrganizationName == "" {
		return nil, apperrors.NewUnauthorizedError("invalid token payload")
	}

	org, err := uc.orgs.FindByName(ctx, claims.OrganizationName)
	if err != nil {
		if errors.Is(err, model.ErrOrganizationNotFound) {
			return nil, apperrors.NewNotFoundError("organization")
		}
		return nil, apperrors.NewStoreUnavailableError("failed to resolve caller").WithCause(err)
	}

	return &CallerIdentity{
		OrganizationID:   org.ID.Hex(),
		OrganizationName: org.OrganizationName,
		Email:            org.Email,
		CollectionName:   org.CollectionName,
	}, nil
}

// AuthorizeOwnTenant enforces that a caller may only act on their own tenant.
func (uc *AuthUsecase) AuthorizeOwnTenant(caller *CallerIdentity, targetName string) error {
	if caller == nil {
		return apperrors.NewUnauthorizedError("authentication required")
	}
	if caller.OrganizationName != targetName {
		return apperrors.NewForbiddenError("caller may only act on their own organization")
	}
	return nil
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
