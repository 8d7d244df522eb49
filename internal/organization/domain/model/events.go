package model

import (
	"time"

	"github.com/google/uuid"

	"orgmanager/internal/shared/eventbus"
)

// LifecycleEvent carries an organization lifecycle change on the event bus.
type LifecycleEvent struct {
	EventID          string
	EventType        string
	OrganizationID   string
	OrganizationName string
	// PreviousName is set for rename events only.
	PreviousName string
	OccurredAt   time.Time
}

// NewLifecycleEvent builds a lifecycle event for the given organization.
func NewLifecycleEvent(eventType string, org *Organization) *LifecycleEvent {
	return &LifecycleEvent{
		EventID:          uuid.New().String(),
		EventType:        eventType,
		OrganizationID:   org.ID.Hex(),
		OrganizationName: org.OrganizationName,
		OccurredAt:       time.Now(),
	}
}

// NewRenameEvent builds a rename lifecycle event carrying both names.
func NewRenameEvent(org *Organization, previousName string) *LifecycleEvent {
	ev := NewLifecycleEvent(eventbus.EventTypeOrganizationRenamed, org)
	ev.PreviousName = previousName
	return ev
}

func (e *LifecycleEvent) Type() string {
	return e.EventType
}

func (e *LifecycleEvent) Data() interface{} {
	return e
}

func (e *LifecycleEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func (e *LifecycleEvent) Source() string {
	return "organization-lifecycle"
}
