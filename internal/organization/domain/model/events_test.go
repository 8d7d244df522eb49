package model_test

import (
	"testing"

	"orgmanager/internal/organization/domain/model"
	"orgmanager/internal/shared/eventbus"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLifecycleEvents(t *testing.T) {
	org := &model.Organization{
		ID:               primitive.NewObjectID(),
		OrganizationName: "acme-corp",
	}

	ev := model.NewLifecycleEvent(eventbus.EventTypeOrganizationCreated, org)
	assert.Equal(t, eventbus.EventTypeOrganizationCreated, ev.Type())
	assert.Equal(t, "acme-corp", ev.OrganizationName)
	assert.NotEmpty(t, ev.EventID)
	assert.Empty(t, ev.PreviousName)
	assert.False(t, ev.Timestamp().IsZero())

	rename := model.NewRenameEvent(org, "acme")
	assert.Equal(t, eventbus.EventTypeOrganizationRenamed, rename.Type())
	assert.Equal(t, "acme", rename.PreviousName)
}
