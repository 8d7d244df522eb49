package mongodb

import (
	"context"
	"fmt"
	"time"

	"orgmanager/internal/organization/domain/model"
	"orgmanager/internal/organization/domain/repository"
	"orgmanager/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// registryCollection is the master collection holding one record per tenant.
const registryCollection = "organizations"

// namespaceExistsCode is the MongoDB server code for "collection already exists".
const namespaceExistsCode = 48

// MongoOrganizationRepository implements OrganizationRepository using MongoDB.
// The registry and every tenant collection live in the same database; tenant
// isolation is by collection name.
type MongoOrganizationRepository struct {
	db       *mongo.Database
	registry *mongo.Collection
	logger   logger.Logger
}

// NewMongoOrganizationRepository creates a new MongoDB organization repository.
// Unique indexes on organization_name and email back the usecase's pre-flight
// existence checks with a real store-level constraint.
func NewMongoOrganizationRepository(db *mongo.Database, log logger.Logger) (*MongoOrganizationRepository, error) {
	repo := &MongoOrganizationRepository{
		db:       db,
		registry: db.Collection(registryCollection),
		logger:   log.WithComponent("organization-repository"),
	}

	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "organization_name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := repo.registry.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create registry indexes: %w", err)
	}

	return repo, nil
}

// InsertOrganization inserts a registry record, assigning its ID and
// timestamps. A duplicate name or email maps to ErrOrganizationExists.
func (r *MongoOrganizationRepository) InsertOrganization(ctx context.Context, org *model.Organization) error {
	if org == nil {
		return fmt.Errorf("organization cannot be nil")
	}

	now := time.Now()
	org.CreatedAt = now
	org.UpdatedAt = now

	result, err := r.registry.InsertOne(ctx, org)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrOrganizationExists
		}
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		org.ID = oid
	}

	return nil
}

// FindByName retrieves a registry record by its organization name.
func (r *MongoOrganizationRepository) FindByName(ctx context.Context, organizationName string) (*model.Organization, error) {
	return r.findOne(ctx, bson.M{"organization_name": organizationName})
}

// FindByEmail retrieves a registry record by its admin email.
func (r *MongoOrganizationRepository) FindByEmail(ctx context.Context, email string) (*model.Organization, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID retrieves a registry record by its hex object ID.
func (r *MongoOrganizationRepository) FindByID(ctx context.Context, id string) (*model.Organization, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrOrganizationNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *MongoOrganizationRepository) findOne(ctx context.Context, filter bson.M) (*model.Organization, error) {
	var org model.Organization
	err := r.registry.FindOne(ctx, filter).Decode(&org)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

// UpdateOrganization merges the patch into the matching record and refreshes
// updated_at. It reports whether a record was modified.
func (r *MongoOrganizationRepository) UpdateOrganization(ctx context.Context, organizationName string, patch map[string]interface{}) (bool, error) {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range patch {
		set[k] = v
	}

	result, err := r.registry.UpdateOne(ctx,
		bson.M{"organization_name": organizationName},
		bson.M{"$set": set},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, model.ErrOrganizationExists
		}
		return false, err
	}

	return result.ModifiedCount > 0, nil
}

// DeleteOrganization removes a registry record and reports whether one was removed.
func (r *MongoOrganizationRepository) DeleteOrganization(ctx context.Context, organizationName string) (bool, error) {
	result, err := r.registry.DeleteOne(ctx, bson.M{"organization_name": organizationName})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// CreateCollection provisions a tenant data collection. An already existing
// collection is not an error; any other failure is a systemic store error.
func (r *MongoOrganizationRepository) CreateCollection(ctx context.Context, collectionName string) error {
	err := r.db.CreateCollection(ctx, collectionName)
	if err != nil {
		if cmdErr, ok := err.(mongo.CommandError); ok && cmdErr.Code == namespaceExistsCode {
			return nil
		}
		r.logger.WithFields(map[string]interface{}{
			"collection_name": collectionName,
		}).Errorf("Failed to create collection: %v", err)
		return err
	}
	return nil
}

// DropCollection tears down a tenant data collection. Dropping an absent
// collection is a no-op at the server, so only systemic failures surface.
func (r *MongoOrganizationRepository) DropCollection(ctx context.Context, collectionName string) error {
	if err := r.db.Collection(collectionName).Drop(ctx); err != nil {
		r.logger.WithFields(map[string]interface{}{
			"collection_name": collectionName,
		}).Errorf("Failed to drop collection: %v", err)
		return err
	}
	return nil
}

// ListDocuments returns documents from a tenant collection in insertion
// order, capped at limit. A non-positive limit returns everything.
func (r *MongoOrganizationRepository) ListDocuments(ctx context.Context, collectionName string, limit int64) ([]map[string]interface{}, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.db.Collection(collectionName).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := make([]map[string]interface{}, 0)
	for cursor.Next(ctx) {
		var doc map[string]interface{}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		normalizeDocumentID(doc)
		docs = append(docs, doc)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return docs, nil
}

// CountDocuments returns the total number of documents in a tenant collection.
func (r *MongoOrganizationRepository) CountDocuments(ctx context.Context, collectionName string) (int64, error) {
	count, err := r.db.Collection(collectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// InsertDocument inserts an opaque tenant-owned document. No schema is enforced.
func (r *MongoOrganizationRepository) InsertDocument(ctx context.Context, collectionName string, doc map[string]interface{}) error {
	if _, err := r.db.Collection(collectionName).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// MigrateCollection copies every document from source into dest. A source
// with zero documents is trivially migrated.
func (r *MongoOrganizationRepository) MigrateCollection(ctx context.Context, source, dest string) error {
	cursor, err := r.db.Collection(source).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to read source collection: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []interface{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("failed to decode source document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("cursor error: %w", err)
	}

	if len(docs) == 0 {
		return nil
	}

	if _, err := r.db.Collection(dest).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to copy documents: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"source":         source,
		"destination":    dest,
		"document_count": len(docs),
	}).Info("Migrated tenant collection")

	return nil
}

// normalizeDocumentID converts a raw ObjectID into its hex form so previews
// serialize cleanly as JSON.
func normalizeDocumentID(doc map[string]interface{}) {
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		doc["_id"] = oid.Hex()
	}
}

// Ensure MongoOrganizationRepository implements OrganizationRepository
var _ repository.OrganizationRepository = (*MongoOrganizationRepository)(nil)
