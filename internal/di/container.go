// Package di assembles the application's modules with proper lifecycle
// management.
package di

import (
	"context"
	"fmt"
	"sync"

	"orgmanager/internal/auth"
	authconfig "orgmanager/internal/auth/config"
	"orgmanager/internal/organization"
	"orgmanager/internal/organization/adapter/persistence/mongodb"
	orgconfig "orgmanager/internal/organization/config"
	"orgmanager/internal/organization/domain/model"
	"orgmanager/internal/shared/database"
	"orgmanager/internal/shared/eventbus"
	"orgmanager/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds the application's modules and shared infrastructure.
type Container struct {
	mu sync.Mutex

	AuthModule         *auth.AuthModule
	OrganizationModule *organization.Module

	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	EventBus    *eventbus.EventBus

	AuthConfig *authconfig.Config
	OrgConfig  *orgconfig.Config

	Logger logger.Logger
}

// NewContainer creates an empty container
func NewContainer(log logger.Logger) *Container {
	return &Container{Logger: log}
}

// Initialize connects to MongoDB and wires both modules. The organization
// registry repository is built once and shared: the auth module reads admin
// credentials from the same records the lifecycle manages.
func (c *Container) Initialize(ctx context.Context, authCfg *authconfig.Config, orgCfg *orgconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	client, err := database.Connect(ctx, orgCfg.MongoDBURI, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	c.MongoClient = client
	c.MongoDB = client.Database(orgCfg.DatabaseName)
	c.AuthConfig = authCfg
	c.OrgConfig = orgCfg

	repo, err := mongodb.NewMongoOrganizationRepository(c.MongoDB, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize organization repository: %w", err)
	}

	authModule, err := auth.NewAuthModule(repo, authCfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthModule = authModule

	c.EventBus = eventbus.NewEventBus(c.Logger)
	c.subscribeLifecycleLogging()

	orgModule, err := organization.NewModule(repo, authModule.GetCredentialService(), c.EventBus, orgCfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create organization module: %w", err)
	}
	c.OrganizationModule = orgModule

	return nil
}

// subscribeLifecycleLogging records every lifecycle event on the bus.
func (c *Container) subscribeLifecycleLogging() {
	log := c.Logger.WithComponent("lifecycle-events")
	handler := func(ctx context.Context, event eventbus.Event) error {
		fields := map[string]interface{}{
			"event_type": event.Type(),
		}
		if lifecycle, ok := event.(*model.LifecycleEvent); ok {
			fields["organization_name"] = lifecycle.OrganizationName
			if lifecycle.PreviousName != "" {
				fields["previous_name"] = lifecycle.PreviousName
			}
		}
		log.WithFields(fields).Info("Organization lifecycle event")
		return nil
	}

	for _, eventType := range []string{
		eventbus.EventTypeOrganizationCreated,
		eventbus.EventTypeOrganizationRenamed,
		eventbus.EventTypeOrganizationDeleted,
	} {
		c.EventBus.Subscribe(eventType, handler)
	}
}

// Close releases the container's external connections.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoClient == nil {
		return nil
	}
	database.Disconnect(ctx, c.MongoClient, c.Logger)
	return nil
}
