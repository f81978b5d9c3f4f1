// File: internal/auth/linker.go
package auth

import (
	"context"
	"errors"
	"time"

	"social_login_backend/internal/common"
	"social_login_backend/internal/role"
	"social_login_backend/internal/shared"
	"social_login_backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegistrationPolicy is the per-provider account policy, immutable for the
// process lifetime. DefaultRoles may be empty; registration does not fail on
// an empty set.
type RegistrationPolicy struct {
	AutoRegister bool
	DefaultRoles []string
}

// IdentityLinker maps an external identity assertion onto exactly one local
// user: reuse an existing account, create a new one, or reject the login.
type IdentityLinker struct {
	users  UserStore
	roles  RoleStore
	logger *zap.Logger
}

// NewIdentityLinker creates a new identity linker.
func NewIdentityLinker(users UserStore, roles RoleStore, logger *zap.Logger) *IdentityLinker {
	return &IdentityLinker{
		users:  users,
		roles:  roles,
		logger: logger.Named("IdentityLinker"),
	}
}

// Resolve finds or creates the local user for the given identity. The second
// return value reports whether a new account was created.
//
// Races between concurrent first-time logins for the same email are absorbed
// here: a uniqueness conflict on creation is treated as success, after which
// the user is re-fetched and linked as if it had been found initially. After
// any number of concurrent Resolve calls for one email, exactly one logical
// user exists.
func (l *IdentityLinker) Resolve(ctx context.Context, identity *ExternalIdentity, policy RegistrationPolicy) (*shared.User, bool, error) {
	if identity == nil || len(identity.Emails) == 0 {
		return nil, false, common.ErrIdentityIncomplete.WithDetails("The identity assertion carries no email addresses.")
	}

	existing, err := l.findByEmails(ctx, identity.Emails)
	if err != nil {
		return nil, false, storeFailure(err)
	}
	if existing != nil {
		resolved, err := l.link(ctx, existing, identity.Provider)
		return resolved, false, err
	}

	if !policy.AutoRegister {
		l.logger.Info("Login rejected, no matching account and auto-register disabled",
			zap.String("provider", identity.Provider))
		return nil, false, common.ErrLoginRejected.WithDetails("No matching account exists for this identity.")
	}

	newUser, err := l.newUserFromIdentity(ctx, identity, policy)
	if err != nil {
		return nil, false, err
	}

	err = l.users.CreateIfAbsent(ctx, newUser)
	if err == nil {
		l.logger.Info("New user registered from external identity",
			zap.String("userID", newUser.ID.String()),
			zap.String("provider", identity.Provider))
		return user.DBToShared(newUser), true, nil
	}
	if !errors.Is(err, common.ErrConflict) {
		return nil, false, storeFailure(err)
	}

	// A concurrent login created the same email first. Treat the conflict as
	// success: re-fetch and proceed as if found.
	l.logger.Info("Concurrent registration detected, re-fetching existing user",
		zap.String("provider", identity.Provider))
	existing, err = l.findByEmails(ctx, identity.Emails)
	if err != nil {
		return nil, false, storeFailure(err)
	}
	if existing == nil {
		return nil, false, common.ErrStore.WithDetails("Creation conflicted but no matching user exists afterwards.")
	}
	resolved, err := l.link(ctx, existing, identity.Provider)
	return resolved, false, err
}

// findByEmails returns the matching user, applying the deterministic
// tie-break: the first email in the identity's list that matches wins.
func (l *IdentityLinker) findByEmails(ctx context.Context, emails []string) (*user.User, error) {
	matches, err := l.users.FindByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	byEmail := make(map[string]*user.User, len(matches))
	for i := range matches {
		byEmail[matches[i].Email] = &matches[i]
	}
	for _, e := range emails {
		if u, ok := byEmail[user.NormalizeEmail(e)]; ok {
			return u, nil
		}
	}
	return nil, nil
}

// link ensures the provider is recorded on an existing user. The add is
// idempotent; a provider already present is a no-op.
func (l *IdentityLinker) link(ctx context.Context, dbUser *user.User, provider string) (*shared.User, error) {
	if !dbUser.HasProvider(provider) {
		if err := l.users.AddProvider(ctx, dbUser.ID, provider); err != nil {
			l.logger.Error("Failed to link provider to existing user",
				zap.String("userID", dbUser.ID.String()),
				zap.String("provider", provider),
				zap.Error(err))
			return nil, storeFailure(err)
		}
		dbUser.LinkedProviders = append(dbUser.LinkedProviders, provider)
		l.logger.Info("Provider linked to existing user",
			zap.String("userID", dbUser.ID.String()),
			zap.String("provider", provider))
	}
	return user.DBToShared(dbUser), nil
}

func (l *IdentityLinker) newUserFromIdentity(ctx context.Context, identity *ExternalIdentity, policy RegistrationPolicy) (*user.User, error) {
	firstName, lastName := SplitDisplayName(identity.DisplayName)

	var roles []role.Role
	if len(policy.DefaultRoles) > 0 {
		found, err := l.roles.FindByShortNames(ctx, policy.DefaultRoles)
		if err != nil {
			return nil, storeFailure(err)
		}
		if len(found) < len(policy.DefaultRoles) {
			l.logger.Warn("Some configured default roles do not exist and were skipped",
				zap.Strings("requested", policy.DefaultRoles),
				zap.Int("found", len(found)))
		}
		roles = found
	}

	now := time.Now()
	return &user.User{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:           user.NormalizeEmail(identity.Emails[0]),
		FirstName:       firstName,
		LastName:        lastName,
		LinkedProviders: []string{identity.Provider},
		Roles:           roles,
		LastLoginAt:     &now,
	}, nil
}

// storeFailure preserves APIError kinds and wraps raw persistence errors as
// STORE_ERROR.
func storeFailure(err error) error {
	if _, ok := common.IsAPIError(err); ok {
		return err
	}
	return common.ErrStore.WithDetails(err.Error())
}
