// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"social_login_backend/internal/app"
	"social_login_backend/internal/auth"
	"social_login_backend/internal/config"
	"social_login_backend/internal/platform/database"
	"social_login_backend/internal/platform/logger"
	"social_login_backend/internal/role"
	"social_login_backend/internal/shared"
	"social_login_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Stores
		user.NewGORMRepository,
		role.NewGORMRepository,
		wire.Bind(new(auth.UserStore), new(user.Repository)),
		wire.Bind(new(auth.RoleStore), new(role.Repository)),

		// User Service
		user.NewService,
		wire.Bind(new(shared.UserProvider), new(*user.ServiceImplementation)),

		// Login Core
		auth.NewProviderRegistry,
		auth.NewIdentityLinker,
		auth.NewJWTService,
		auth.NewSessionIssuer,
		auth.NewInMemorySessionRevocations,
		wire.Bind(new(shared.SessionRevocations), new(*auth.InMemorySessionRevocations)),

		// Handlers
		auth.NewHandler,
		user.NewHandler,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
