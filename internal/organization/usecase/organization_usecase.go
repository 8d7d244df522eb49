package usecase

import (
	"context"
	"errors"
	"fmt"

	authrepo "orgmanager/internal/auth/domain/repository"
	"orgmanager/internal/organization/domain/model"
	"orgmanager/internal/organization/domain/repository"
	apperrors "orgmanager/internal/shared/errors"
	"orgmanager/internal/shared/eventbus"
	"orgmanager/internal/shared/logger"
)

// OrganizationUsecaseInterface defines the contract for the organization
// lifecycle: atomic creation with rollback, rename with collection migration,
// and teardown.
type OrganizationUsecaseInterface interface {
	CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (*model.OrganizationView, error)
	GetOrganization(ctx context.Context, organizationName string) (*model.OrganizationDetail, error)
	UpdateOrganization(ctx context.Context, organizationName string, newSettings map[string]interface{}) (*model.UpdateResult, error)
	DeleteOrganization(ctx context.Context, organizationName string) (*model.DeleteResult, error)
	InsertDocument(ctx context.Context, organizationName string, doc map[string]interface{}) error
}

// CreateOrganizationRequest represents the organization creation request
type CreateOrganizationRequest struct {
	OrganizationName string `json:"organization_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

// Registry keys managed by the lifecycle itself; they are never written from
// the open settings map.
var reservedSettingsKeys = map[string]bool{
	"organization_name": true,
	"collection_name":   true,
	"email":             true,
	"password":          true,
}

// OrganizationUsecase implements the organization lifecycle over the tenant
// store. Multi-step sequences are compensated, not transactional: each
// failure path defines an explicit rollback or an accepted inconsistency.
type OrganizationUsecase struct {
	repo         repository.OrganizationRepository
	cache        repository.OrganizationCache
	creds        authrepo.CredentialService
	events       eventbus.EventBusInterface
	logger       logger.Logger
	previewLimit int
}

// NewOrganizationUsecase creates a new organization lifecycle instance.
// cache and events may be nil; both are optional collaborators.
func NewOrganizationUsecase(
	repo repository.OrganizationRepository,
	cache repository.OrganizationCache,
	creds authrepo.CredentialService,
	events eventbus.EventBusInterface,
	log logger.Logger,
	previewLimit int,
) *OrganizationUsecase {
	if previewLimit <= 0 {
		previewLimit = 10
	}
	return &OrganizationUsecase{
		repo:         repo,
		cache:        cache,
		creds:        creds,
		events:       events,
		logger:       log.WithComponent("organization-lifecycle"),
		previewLimit: previewLimit,
	}
}

// CreateOrganization provisions a tenant: registry record plus a dedicated
// data collection. If the collection cannot be created the record insert is
// compensated by deleting it again.
func (uc *OrganizationUsecase) CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (*model.OrganizationView, error) {
	if err := model.ValidateOrganizationName(req.OrganizationName); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := model.ValidateEmail(req.Email); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	// Pre-flight existence checks. These are a fast path only; the store's
	// unique indexes remain the real uniqueness constraint under races.
	if _, err := uc.repo.FindByName(ctx, req.OrganizationName); err == nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("organization '%s' already exists", req.OrganizationName))
	} else if !errors.Is(err, model.ErrOrganizationNotFound) {
		return nil, apperrors.NewStoreUnavailableError("failed to check organization existence").WithCause(err)
	}

	if _, err := uc.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("email '%s' is already registered", req.Email))
	} else if !errors.Is(err, model.ErrOrganizationNotFound) {
		return nil, apperrors.NewStoreUnavailableError("failed to check email existence").WithCause(err)
	}

	passwordHash, err := uc.creds.Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password").WithCause(err)
	}

	org, err := model.NewOrganization(req.OrganizationName, req.Email, passwordHash)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.repo.InsertOrganization(ctx, org); err != nil {
		if errors.Is(err, model.ErrOrganizationExists) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("organization '%s' already exists", req.OrganizationName))
		}
		return nil, apperrors.NewStoreUnavailableError("failed to insert organization").WithCause(err)
	}

	if err := uc.repo.CreateCollection(ctx, org.CollectionName); err != nil {
		// Compensating action: undo the registry insert. A crash between the
		// insert and this point can still leave an orphan record.
		if _, delErr := uc.repo.DeleteOrganization(ctx, org.OrganizationName); delErr != nil {
			uc.logger.WithFields(map[string]interface{}{
				"organization_name": org.OrganizationName,
			}).Errorf("Rollback of organization record failed: %v", delErr)
		}
		return nil, apperrors.NewProvisioningError("failed to create organization collection").WithCause(err)
	}

	uc.logger.WithFields(map[string]interface{}{
		"organization_name": org.OrganizationName,
		"collection_name":   org.CollectionName,
	}).Info("Created organization")

	uc.publish(ctx, model.NewLifecycleEvent(eventbus.EventTypeOrganizationCreated, org))

	view := org.View()
	return &view, nil
}

// GetOrganization returns the record view plus a bounded preview of the
// tenant's data and a total count.
func (uc *OrganizationUsecase) GetOrganization(ctx context.Context, organizationName string) (*model.OrganizationDetail, error) {
	org, err := uc.findOrganization(ctx, organizationName)
	if err != nil {
		return nil, err
	}

	count, err := uc.repo.CountDocuments(ctx, org.CollectionName)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to count organization data").WithCause(err)
	}

	docs, err := uc.repo.ListDocuments(ctx, org.CollectionName, int64(uc.previewLimit))
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to read organization data").WithCause(err)
	}

	return &model.OrganizationDetail{
		OrganizationView: org.View(),
		DataCount:        count,
		Data:             docs,
	}, nil
}

// UpdateOrganization merges settings into the record. When the settings carry
// a different organization name the tenant collection is migrated first:
// migrate, then swap metadata, then drop the old collection, in that order.
func (uc *OrganizationUsecase) UpdateOrganization(ctx context.Context, organizationName string, newSettings map[string]interface{}) (*model.UpdateResult, error) {
	org, err := uc.findOrganization(ctx, organizationName)
	if err != nil {
		return nil, err
	}

	newName, _ := newSettings["organization_name"].(string)
	if newName != "" && newName != organizationName {
		return uc.renameOrganization(ctx, org, newName, newSettings)
	}

	patch := uc.buildSettingsPatch(newSettings)
	modified, err := uc.repo.UpdateOrganization(ctx, organizationName, patch)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to update organization").WithCause(err)
	}
	if !modified {
		return nil, apperrors.NewUpdateFailedError("failed to update organization")
	}

	uc.invalidateCache(ctx, organizationName)

	updated, err := uc.repo.FindByName(ctx, organizationName)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to reload organization").WithCause(err)
	}

	return &model.UpdateResult{
		OrganizationView: updated.View(),
		Message:          "organization updated successfully",
	}, nil
}

// renameOrganization migrates the tenant collection to a new name. Ordering
// is mandatory: migrate before swapping metadata before dropping the old
// collection, so a half-migrated collection is never the tenant's active
// store.
func (uc *OrganizationUsecase) renameOrganization(ctx context.Context, org *model.Organization, newName string, newSettings map[string]interface{}) (*model.UpdateResult, error) {
	if err := model.ValidateOrganizationName(newName); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if _, err := uc.repo.FindByName(ctx, newName); err == nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("organization name '%s' already exists", newName))
	} else if !errors.Is(err, model.ErrOrganizationNotFound) {
		return nil, apperrors.NewStoreUnavailableError("failed to check target name").WithCause(err)
	}

	oldName := org.OrganizationName
	oldCollection := org.CollectionName
	newCollection := model.CollectionNameFor(newName)

	if err := uc.repo.CreateCollection(ctx, newCollection); err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to create target collection").WithCause(err)
	}

	if err := uc.repo.MigrateCollection(ctx, oldCollection, newCollection); err != nil {
		// Rename is abandoned, not partially applied: drop the target
		// collection and leave the original record and data untouched.
		if dropErr := uc.repo.DropCollection(ctx, newCollection); dropErr != nil {
			uc.logger.WithFields(map[string]interface{}{
				"collection_name": newCollection,
			}).Errorf("Rollback of migrated collection failed: %v", dropErr)
		}
		return nil, apperrors.NewMigrationError("failed to migrate organization data").WithCause(err)
	}

	patch := uc.buildSettingsPatch(newSettings)
	patch["organization_name"] = newName
	patch["collection_name"] = newCollection

	modified, err := uc.repo.UpdateOrganization(ctx, oldName, patch)
	if err != nil || !modified {
		// The new collection now holds the data but the record still points
		// at the old one. This fork must stand out from ordinary failures;
		// it is reported, not auto-healed.
		uc.logger.WithFields(map[string]interface{}{
			"organization_name": oldName,
			"target_name":       newName,
			"source_collection": oldCollection,
			"target_collection": newCollection,
			"critical":          true,
		}).Error("Metadata swap failed after successful migration")
		return nil, apperrors.NewCriticalInconsistencyError("organization metadata no longer matches migrated data").WithCause(err)
	}

	// The rename has logically succeeded; a failed drop only leaks the old
	// collection and is not surfaced to the caller.
	if err := uc.repo.DropCollection(ctx, oldCollection); err != nil {
		uc.logger.WithFields(map[string]interface{}{
			"collection_name": oldCollection,
		}).Warnf("Failed to drop old collection after rename: %v", err)
	}

	uc.invalidateCache(ctx, oldName)
	uc.invalidateCache(ctx, newName)

	updated, err := uc.repo.FindByName(ctx, newName)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to reload organization").WithCause(err)
	}

	uc.logger.WithFields(map[string]interface{}{
		"organization_name": newName,
		"previous_name":     oldName,
	}).Info("Renamed organization")

	uc.publish(ctx, model.NewRenameEvent(updated, oldName))

	return &model.UpdateResult{
		OrganizationView: updated.View(),
		Message:          "organization updated successfully",
	}, nil
}

// DeleteOrganization tears a tenant down. The collection drop is best-effort;
// registry consistency takes priority over storage reclamation.
func (uc *OrganizationUsecase) DeleteOrganization(ctx context.Context, organizationName string) (*model.DeleteResult, error) {
	org, err := uc.findOrganization(ctx, organizationName)
	if err != nil {
		return nil, err
	}

	collectionDropped := true
	if err := uc.repo.DropCollection(ctx, org.CollectionName); err != nil {
		collectionDropped = false
		uc.logger.WithFields(map[string]interface{}{
			"organization_name": organizationName,
			"collection_name":   org.CollectionName,
		}).Warnf("Failed to drop tenant collection during delete: %v", err)
	}

	removed, err := uc.repo.DeleteOrganization(ctx, organizationName)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to delete organization").WithCause(err)
	}
	if !removed {
		return nil, apperrors.NewDeletionFailedError("failed to delete organization")
	}

	uc.invalidateCache(ctx, organizationName)

	uc.logger.WithFields(map[string]interface{}{
		"organization_name":  organizationName,
		"collection_dropped": collectionDropped,
	}).Info("Deleted organization")

	uc.publish(ctx, model.NewLifecycleEvent(eventbus.EventTypeOrganizationDeleted, org))

	return &model.DeleteResult{
		Message:           fmt.Sprintf("organization '%s' deleted successfully", organizationName),
		CollectionDropped: collectionDropped,
	}, nil
}

// InsertDocument stores an opaque document in the tenant's collection.
func (uc *OrganizationUsecase) InsertDocument(ctx context.Context, organizationName string, doc map[string]interface{}) error {
	org, err := uc.findOrganization(ctx, organizationName)
	if err != nil {
		return err
	}

	if err := uc.repo.InsertDocument(ctx, org.CollectionName, doc); err != nil {
		return apperrors.NewStoreUnavailableError("failed to insert document").WithCause(err)
	}

	return nil
}

// findOrganization resolves a registry record, consulting the cache first.
func (uc *OrganizationUsecase) findOrganization(ctx context.Context, organizationName string) (*model.Organization, error) {
	if uc.cache != nil {
		if org, err := uc.cache.Get(ctx, organizationName); err == nil {
			return org, nil
		}
	}

	org, err := uc.repo.FindByName(ctx, organizationName)
	if err != nil {
		if errors.Is(err, model.ErrOrganizationNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("organization '%s'", organizationName))
		}
		return nil, apperrors.NewStoreUnavailableError("failed to look up organization").WithCause(err)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, org); err != nil {
			uc.logger.Warnf("Failed to cache organization %s: %v", organizationName, err)
		}
	}

	return org, nil
}

// buildSettingsPatch routes open settings keys under the settings mapping and
// keeps lifecycle-managed registry keys out of the patch.
func (uc *OrganizationUsecase) buildSettingsPatch(newSettings map[string]interface{}) map[string]interface{} {
	patch := make(map[string]interface{}, len(newSettings))
	for key, value := range newSettings {
		if reservedSettingsKeys[key] {
			continue
		}
		patch["settings."+key] = value
	}
	return patch
}

func (uc *OrganizationUsecase) invalidateCache(ctx context.Context, organizationName string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, organizationName); err != nil {
		uc.logger.Warnf("Failed to invalidate cached organization %s: %v", organizationName, err)
	}
}

func (uc *OrganizationUsecase) publish(ctx context.Context, event eventbus.Event) {
	if uc.events == nil {
		return
	}
	uc.events.PublishAndForget(ctx, event)
}

// Ensure OrganizationUsecase implements OrganizationUsecaseInterface
var _ OrganizationUsecaseInterface = (*OrganizationUsecase)(nil)
