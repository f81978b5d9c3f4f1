// File: internal/user/model.go
package user

import (
	"time"

	"social_login_backend/internal/common"
	"social_login_backend/internal/role"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User represents the user model in the database. Email is unique and stored
// lowercased; linked_providers only ever grows.
type User struct {
	common.BaseModel
	Email           string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName       string         `gorm:"type:varchar(100)"`
	LastName        string         `gorm:"type:varchar(100)"`
	LinkedProviders pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Roles           []role.Role    `gorm:"many2many:user_roles"`
	LastLoginAt     *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
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

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name,omitempty"`
	LastName        string     `json:"last_name,omitempty"`
	LinkedProviders []string   `json:"linked_providers"`
	Roles           []string   `json:"roles"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}
