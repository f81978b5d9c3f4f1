// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"social_login_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations. CreateIfAbsent
// and AddProvider are the two primitives the identity linker relies on for
// race tolerance: the first is a unique-index-backed insert that reports
// conflicts, the second is a single atomic, idempotent statement.
type Repository interface {
	FindByEmails(ctx context.Context, emails []string) ([]User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	CreateIfAbsent(ctx context.Context, user *User) error
	AddProvider(ctx context.Context, id uuid.UUID, provider string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmails retrieves all users whose email matches any of the given
// addresses. The result carries no ordering guarantee; callers apply their own
// tie-break.
func (r *gormRepository) FindByEmails(ctx context.Context, emails []string) ([]User, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized = append(normalized, NormalizeEmail(e))
	}
	var users []User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("email IN ?", normalized).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID retrieves a user by their ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
		}
		return nil, err
	}
	return &userModel, nil
}

// CreateIfAbsent inserts a new user record. A uniqueness conflict on the email
// index is reported as common.ErrConflict so callers can treat a concurrent
// creation of the same email as success.
func (r *gormRepository) CreateIfAbsent(ctx context.Context, user *User) error {
	user.Email = NormalizeEmail(user.Email)
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return common.ErrConflict.WithDetails("User with this email already exists.")
		}
		return err
	}
	return nil
}

// AddProvider links a provider to the user in one guarded statement. Adding an
// already-linked provider affects zero rows and is a no-op, never an error.
func (r *gormRepository) AddProvider(ctx context.Context, id uuid.UUID, provider string) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE users
		 SET linked_providers = array_append(linked_providers, ?), updated_at = current_timestamp
		 WHERE id = ? AND NOT (? = ANY(linked_providers))`,
		provider, id, provider,
	)
	return res.Error
}
