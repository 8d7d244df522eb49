package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for token operations
type TokenService interface {
	GenerateToken(ctx context.Context, email, organizationID, organizationName string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the tenant identity carried by a token. The admin email
// travels in the registered subject claim.
type Claims struct {
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	jwt.RegisteredClaims
}
