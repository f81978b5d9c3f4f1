// File: internal/role/repository.go
package role

import (
	"context"

	"gorm.io/gorm"
)

// Repository defines the interface for role lookups.
type Repository interface {
	FindByShortNames(ctx context.Context, names []string) ([]Role, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM role repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// FindByShortNames retrieves the roles matching the given short names. Unknown
// names are simply absent from the result, not an error.
func (r *gormRepository) FindByShortNames(ctx context.Context, names []string) ([]Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var roles []Role
	if err := r.db.WithContext(ctx).Where("short_name IN ?", names).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
