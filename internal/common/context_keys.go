// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// UserIDKey is the context key for storing the authenticated user's ID
	UserIDKey = "userID"
	// UserEmailKey is the context key for storing the authenticated user's email
	UserEmailKey = "userEmail"
	// SessionTokenKey is the context key the callback controller writes the
	// freshly issued session token into on success.
	SessionTokenKey = "sessionToken"
	// SessionProviderKey is the context key for the provider that authenticated
	// the current session.
	SessionProviderKey = "sessionProvider"
)
