package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "demand-genius context key " + string(c)
}

// TenantIDKey is the key for TenantID in context.Context
const TenantIDKey = contextKey("tenantID")

// RequestIDKey is the key for RequestID in context.Context
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the emitting component in context.Context
const ComponentKey = contextKey("component")

// OperationKey is the key for the catalog operation (list, search, distribution, ...)
const OperationKey = contextKey("operation")
