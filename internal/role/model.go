// File: internal/role/model.go
package role

import (
	"social_login_backend/internal/common"
)

// Role represents an application role assignable to users.
type Role struct {
	common.BaseModel
	ShortName   string `gorm:"type:varchar(50);not null;uniqueIndex"`
	DisplayName string `gorm:"type:varchar(100)"`
}

// TableName specifies the table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
