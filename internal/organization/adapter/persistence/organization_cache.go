package persistence

import (
	"context"
	"encoding/json"
	"time"

	"orgmanager/internal/organization/domain/model"
	"orgmanager/internal/organization/domain/repository"
	"orgmanager/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "org:registry:"

// cachedOrganization is the cache serialization envelope. The domain model
// hides ID, hash and timestamps from JSON, so the cache carries them
// explicitly to survive the round trip.
type cachedOrganization struct {
	ID               string                 `json:"id"`
	OrganizationName string                 `json:"organization_name"`
	Email            string                 `json:"email"`
	PasswordHash     string                 `json:"password_hash"`
	CollectionName   string                 `json:"collection_name"`
	Settings         map[string]interface{} `json:"settings,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func toCached(org *model.Organization) *cachedOrganization {
	return &cachedOrganization{
		ID:               org.ID.Hex(),
		OrganizationName: org.OrganizationName,
		Email:            org.Email,
		PasswordHash:     org.PasswordHash,
		CollectionName:   org.CollectionName,
		Settings:         org.Settings,
		CreatedAt:        org.CreatedAt,
		UpdatedAt:        org.UpdatedAt,
	}
}

func (c *cachedOrganization) toModel() (*model.Organization, error) {
	id, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return nil, err
	}
	return &model.Organization{
		ID:               id,
		OrganizationName: c.OrganizationName,
		Email:            c.Email,
		PasswordHash:     c.PasswordHash,
		CollectionName:   c.CollectionName,
		Settings:         c.Settings,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}, nil
}

// RedisOrganizationCache is a read-through cache of registry records keyed by
// organization name. A cache miss is reported as model.ErrOrganizationNotFound
// so callers fall back to the store.
type RedisOrganizationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisOrganizationCache creates a new Redis-backed registry cache
func NewRedisOrganizationCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisOrganizationCache {
	return &RedisOrganizationCache{
		client: client,
		ttl:    ttl,
		logger: log.WithComponent("organization-cache"),
	}
}

// Get returns the cached record for an organization name, if present
func (c *RedisOrganizationCache) Get(ctx context.Context, organizationName string) (*model.Organization, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+organizationName).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, model.ErrOrganizationNotFound
		}
		c.logger.Error("Failed to read cached organization", zap.Error(err))
		return nil, err
	}

	var cached cachedOrganization
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.Error("Failed to decode cached organization", zap.Error(err))
		return nil, err
	}

	org, err := cached.toModel()
	if err != nil {
		c.logger.Error("Failed to restore cached organization", zap.Error(err))
		return nil, err
	}

	return org, nil
}

// Set stores a registry record under its organization name
func (c *RedisOrganizationCache) Set(ctx context.Context, org *model.Organization) error {
	raw, err := json.Marshal(toCached(org))
	if err != nil {
		c.logger.Error("Failed to serialize organization for cache", zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, cacheKeyPrefix+org.OrganizationName, raw, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to cache organization", zap.Error(err))
		return err
	}

	return nil
}

// Invalidate drops the cached record for an organization name
func (c *RedisOrganizationCache) Invalidate(ctx context.Context, organizationName string) error {
	if err := c.client.Del(ctx, cacheKeyPrefix+organizationName).Err(); err != nil {
		c.logger.Error("Failed to invalidate cached organization", zap.Error(err))
		return err
	}
	return nil
}

// Ensure RedisOrganizationCache implements OrganizationCache
var _ repository.OrganizationCache = (*RedisOrganizationCache)(nil)
