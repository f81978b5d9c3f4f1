// File: internal/user/service.go
package user

import (
	"context"

	"social_login_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.UserProvider interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ shared.UserProvider = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger.Named("UserService"),
	}
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Debug("User lookup by ID failed", zap.String("userID", id.String()), zap.Error(err))
		return nil, err
	}
	return DBToShared(dbUser), nil
}
