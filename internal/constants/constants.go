package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyTask   = "task"
)

// Cookie contract for token transport
const (
	AccessCookieName  = "access"
	RefreshCookieName = "refresh"

	// The refresh cookie is only ever sent back to the refresh endpoint.
	RefreshCookiePath = "/api/v1/token/refresh/"
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
