// File: internal/shared/core.go
package shared

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// User is the resolved view of a local account handed to the rest of the
// application after a login attempt. The durable record is owned by the user
// store; this struct is a per-request snapshot.
type User struct {
	ID              uuid.UUID
	Email           string
	FirstName       string
	LastName        string
	LinkedProviders []string
	Roles           []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasProvider reports whether the given provider is already linked.
func (u *User) HasProvider(provider string) bool {
	for _, p := range u.LinkedProviders {
		if p == provider {
			return true
		}
	}
	return false
}

// Claims represents the session token claims structure.
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Provider string    `json:"provider"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for session token operations. Generate
// binds the token to (provider, user.ID, issuedAt); callers treat the result
// as an opaque capability.
type TokenService interface {
	Generate(provider string, user *User) (string, time.Time, error)
	Validate(tokenString string) (*Claims, error)
}

// SessionRevocations tracks revoked session tokens by JTI until their natural
// expiry.
type SessionRevocations interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// UserProvider defines the user lookups needed outside the login flow.
type UserProvider interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}
