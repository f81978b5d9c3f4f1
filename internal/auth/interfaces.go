// File: internal/auth/interfaces.go
package auth

import (
	"context"

	"social_login_backend/internal/role"
	"social_login_backend/internal/user"

	"github.com/google/uuid"
)

// UserStore is the slice of the user repository the identity linker needs.
// Implemented by user.Repository.
type UserStore interface {
	FindByEmails(ctx context.Context, emails []string) ([]user.User, error)
	CreateIfAbsent(ctx context.Context, u *user.User) error
	AddProvider(ctx context.Context, id uuid.UUID, provider string) error
}

// RoleStore resolves role short names into role records.
// Implemented by role.Repository.
type RoleStore interface {
	FindByShortNames(ctx context.Context, names []string) ([]role.Role, error)
}
