package database

import (
	"context"
	"fmt"
	"time"

	"orgmanager/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default connection settings for the shared MongoDB client
const (
	defaultConnectTimeout = 10 * time.Second
	defaultMaxPoolSize    = uint64(100)
	defaultMinPoolSize    = uint64(2)
)

// Connect establishes and verifies a MongoDB client connection.
// The returned client is the single shared handle owned by the composition
// root; callers are responsible for calling Disconnect on shutdown.
func Connect(ctx context.Context, uri string, log logger.Logger) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongodb uri cannot be empty")
	}

	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(defaultMaxPoolSize).
		SetMinPoolSize(defaultMinPoolSize)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	if log != nil {
		log.WithComponent("database").Info("MongoDB connection established")
	}

	return client, nil
}

// Disconnect closes the shared MongoDB client, logging failures instead of
// propagating them since it only runs during shutdown.
func Disconnect(ctx context.Context, client *mongo.Client, log logger.Logger) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil && log != nil {
		log.WithComponent("database").Errorf("Failed to disconnect MongoDB: %v", err)
	}
}
