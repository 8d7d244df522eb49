package repository

import (
	"context"

	"orgmanager/internal/organization/domain/model"
)

// OrganizationRepository defines document-store access for the tenant
// registry and for the per-tenant data collections.
//
// Registry operations are atomic single-document operations. Collection
// operations are idempotent best-effort: an error from them means the store
// itself failed, not that the collection already existed or was already gone.
type OrganizationRepository interface {
	// Registry operations
	InsertOrganization(ctx context.Context, org *model.Organization) error
	FindByName(ctx context.Context, organizationName string) (*model.Organization, error)
	FindByEmail(ctx context.Context, email string) (*model.Organization, error)
	FindByID(ctx context.Context, id string) (*model.Organization, error)
	// UpdateOrganization merges patch into the matching record and refreshes
	// updated_at. It reports whether a record was modified.
	UpdateOrganization(ctx context.Context, organizationName string, patch map[string]interface{}) (bool, error)
	// DeleteOrganization removes the record and reports whether one was removed.
	DeleteOrganization(ctx context.Context, organizationName string) (bool, error)

	// Tenant collection operations
	CreateCollection(ctx context.Context, collectionName string) error
	DropCollection(ctx context.Context, collectionName string) error
	ListDocuments(ctx context.Context, collectionName string, limit int64) ([]map[string]interface{}, error)
	CountDocuments(ctx context.Context, collectionName string) (int64, error)
	InsertDocument(ctx context.Context, collectionName string, doc map[string]interface{}) error
	// MigrateCollection copies every document from source into dest. An empty
	// source is treated as trivially migrated.
	MigrateCollection(ctx context.Context, source, dest string) error
}

// OrganizationCache is an optional read-through cache for registry records.
// A nil cache disables caching entirely.
type OrganizationCache interface {
	Get(ctx context.Context, organizationName string) (*model.Organization, error)
	Set(ctx context.Context, org *model.Organization) error
	Invalidate(ctx context.Context, organizationName string) error
}
