// File: internal/user/adapter.go
package user

import (
	"social_login_backend/internal/shared"
)

// DBToShared converts a GORM user model into the shared snapshot handed to the
// rest of the application.
func DBToShared(u *User) *shared.User {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.ShortName)
	}
	return &shared.User{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		LinkedProviders: append([]string(nil), u.LinkedProviders...),
		Roles:           roles,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// ToUserResponse converts a shared user snapshot to a UserResponse DTO.
func ToUserResponse(u *shared.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		LinkedProviders: u.LinkedProviders,
		Roles:           u.Roles,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
