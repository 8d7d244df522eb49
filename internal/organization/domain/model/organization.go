package model

import (
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is the tenant registry entry. Every live organization owns
// exactly one data collection, named after its current organization name.
type Organization struct {
	ID               primitive.ObjectID     `json:"-" bson:"_id,omitempty"`
	OrganizationName string                 `json:"organization_name" bson:"organization_name"`
	Email            string                 `json:"email" bson:"email"`
	PasswordHash     string                 `json:"-" bson:"password"`
	CollectionName   string                 `json:"collection_name" bson:"collection_name"`
	Settings         map[string]interface{} `json:"settings,omitempty" bson:"settings,omitempty"`
	CreatedAt        time.Time              `json:"-" bson:"created_at"`
	UpdatedAt        time.Time              `json:"-" bson:"updated_at"`
}

// CollectionPrefix prefixes every tenant data collection name.
const CollectionPrefix = "org_"

// Organization name constraints
const (
	MinOrganizationNameLength = 3
	MaxOrganizationNameLength = 50
	MinPasswordLength         = 6
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Common organization-related errors
var (
	ErrInvalidOrganizationName = errors.New("organization name must be between 3 and 50 characters")
	ErrInvalidEmail            = errors.New("invalid email address")
	ErrWeakPassword            = errors.New("password must be at least 6 characters")
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrOrganizationExists      = errors.New("organization already exists")
)

// CollectionNameFor derives the tenant collection name from an organization
// name. The collection name is never set directly; it is always recomputed
// from the current organization name.
func CollectionNameFor(organizationName string) string {
	return CollectionPrefix + organizationName
}

// ValidateOrganizationName checks the 3-50 character constraint.
func ValidateOrganizationName(name string) error {
	if len(name) < MinOrganizationNameLength || len(name) > MaxOrganizationNameLength {
		return ErrInvalidOrganizationName
	}
	return nil
}

// ValidateEmail checks that the admin email is well formed.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks the minimum admin password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// NewOrganization builds a validated registry entry. ID and timestamps are
// assigned by the store at insert time.
func NewOrganization(organizationName, email, passwordHash string) (*Organization, error) {
	if err := ValidateOrganizationName(organizationName); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	return &Organization{
		OrganizationName: organizationName,
		Email:            email,
		PasswordHash:     passwordHash,
		CollectionName:   CollectionNameFor(organizationName),
	}, nil
}

// OrganizationView is the wire-visible subset of a registry record.
// The password hash is never serialized.
type OrganizationView struct {
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	Email            string `json:"email"`
	CollectionName   string `json:"collection_name"`
	CreatedAt        string `json:"created_at"`
}

// OrganizationDetail is a view plus a bounded preview of tenant data.
type OrganizationDetail struct {
	OrganizationView
	DataCount int64                    `json:"data_count"`
	Data      []map[string]interface{} `json:"data"`
}

// UpdateResult confirms a successful settings update or rename.
type UpdateResult struct {
	OrganizationView
	Message string `json:"message"`
}

// DeleteResult confirms a registry deletion and reports whether the tenant
// collection was reclaimed.
type DeleteResult struct {
	Message           string `json:"message"`
	CollectionDropped bool   `json:"collection_dropped"`
}

// View projects the record into its wire-visible form.
func (o *Organization) View() OrganizationView {
	return OrganizationView{
		OrganizationID:   o.ID.Hex(),
		OrganizationName: o.OrganizationName,
		Email:            o.Email,
		CollectionName:   o.CollectionName,
		CreatedAt:        o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
