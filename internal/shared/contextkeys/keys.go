package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "orgmanager context key " + string(c)
}

// OrganizationIDKey is the key for the caller's organization ID in context.Context
const OrganizationIDKey = contextKey("organizationID")

// OrganizationNameKey is the key for the caller's organization name in context.Context
const OrganizationNameKey = contextKey("organizationName")

// AdminEmailKey is the key for the authenticated admin email in context.Context
const AdminEmailKey = contextKey("adminEmail")

// RequestIDKey is the key for the request ID in context.Context
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the logging component name in context.Context
const ComponentKey = contextKey("component")

// OperationKey is the key for the logging operation name in context.Context
const OperationKey = contextKey("operation")
