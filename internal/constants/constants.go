package constants

// Session and context keys
const (
	SessionCookieName = "portal_session"
	SessionKeyUserID  = "user_id"
	SessionKeyRole    = "user_role"

	ContextKeyIdentity = "identity"
)

// Validation limits
const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
