package utils

import (
	"context"
	"errors"

	"orgmanager/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrOrganizationIDNotFound    = errors.New("organizationID not found in context")
	ErrOrganizationIDNotString   = errors.New("organizationID in context is not a string")
	ErrOrganizationNameNotFound  = errors.New("organizationName not found in context")
	ErrOrganizationNameNotString = errors.New("organizationName in context is not a string")
	ErrAdminEmailNotFound        = errors.New("adminEmail not found in context")
	ErrAdminEmailNotString       = errors.New("adminEmail in context is not a string")
	ErrRequestIDNotFound         = errors.New("requestID not found in context")
	ErrRequestIDNotString        = errors.New("requestID in context is not a string")
)

// WithOrganizationID returns a context carrying the caller's organization ID.
func WithOrganizationID(ctx context.Context, organizationID string) context.Context {
	return context.WithValue(ctx, contextkeys.OrganizationIDKey, organizationID)
}

// WithOrganizationName returns a context carrying the caller's organization name.
func WithOrganizationName(ctx context.Context, organizationName string) context.Context {
	return context.WithValue(ctx, contextkeys.OrganizationNameKey, organizationName)
}

// WithAdminEmail returns a context carrying the authenticated admin email.
func WithAdminEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, contextkeys.AdminEmailKey, email)
}

// WithRequestID returns a context carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithOperation returns a context carrying the current operation name, picked
// up by the logger.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// WithComponent returns a context carrying the current component name, picked
// up by the logger.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// GetOrganizationIDFromContext retrieves the caller's organization ID from the context.
func GetOrganizationIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.OrganizationIDKey)
	if val == nil {
		return "", ErrOrganizationIDNotFound
	}
	organizationID, ok := val.(string)
	if !ok {
		return "", ErrOrganizationIDNotString
	}
	return organizationID, nil
}

// GetOrganizationNameFromContext retrieves the caller's organization name from the context.
func GetOrganizationNameFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.OrganizationNameKey)
	if val == nil {
		return "", ErrOrganizationNameNotFound
	}
	organizationName, ok := val.(string)
	if !ok {
		return "", ErrOrganizationNameNotString
	}
	return organizationName, nil
}

// GetAdminEmailFromContext retrieves the authenticated admin email from the context.
func GetAdminEmailFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.AdminEmailKey)
	if val == nil {
		return "", ErrAdminEmailNotFound
	}
	email, ok := val.(string)
	if !ok {
		return "", ErrAdminEmailNotString
	}
	return email, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}
