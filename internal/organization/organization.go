// Package organization wires the organization lifecycle: registry
// persistence, tenant collection provisioning, and the HTTP surface.
package organization

import (
	authrepo "orgmanager/internal/auth/domain/repository"
	"orgmanager/internal/organization/adapter/http"
	"orgmanager/internal/organization/adapter/persistence"
	"orgmanager/internal/organization/config"
	"orgmanager/internal/organization/domain/repository"
	"orgmanager/internal/organization/usecase"
	"orgmanager/internal/shared/eventbus"
	"orgmanager/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// Module encapsulates the organization components and their wiring.
type Module struct {
	config  *config.Config
	repo    repository.OrganizationRepository
	cache   repository.OrganizationCache
	usecase usecase.OrganizationUsecaseInterface
	handler *http.OrganizationHandler
	logger  logger.Logger
}

// NewModule assembles the organization module on top of an established
// registry repository. The Redis cache is attached only when enabled in
// configuration.
func NewModule(
	repo repository.OrganizationRepository,
	creds authrepo.CredentialService,
	events eventbus.EventBusInterface,
	cfg *config.Config,
	log logger.Logger,
) (*Module, error) {
	var cache repository.OrganizationCache
	if cfg.CacheEnabled {
		redisClient := config.NewRedisClient(cfg)
		cache = persistence.NewRedisOrganizationCache(redisClient, cfg.CacheTTL, log)
		log.Info("Organization registry cache enabled")
	}

	uc := usecase.NewOrganizationUsecase(repo, cache, creds, events, log, cfg.PreviewLimit)
	handler := http.NewOrganizationHandler(uc, log)

	return &Module{
		config:  cfg,
		repo:    repo,
		cache:   cache,
		usecase: uc,
		handler: handler,
		logger:  log,
	}, nil
}

// RegisterRoutes mounts the organization endpoints on the given router.
// requireOwnTenant guards the endpoints that mutate a specific tenant.
func (m *Module) RegisterRoutes(router fiber.Router, requireOwnTenant fiber.Handler) {
	m.handler.RegisterRoutes(router, requireOwnTenant)
}

// GetRepository returns the organization repository
func (m *Module) GetRepository() repository.OrganizationRepository {
	return m.repo
}

// GetUsecase returns the organization lifecycle usecase
func (m *Module) GetUsecase() usecase.OrganizationUsecaseInterface {
	return m.usecase
}
