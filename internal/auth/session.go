// File: internal/auth/session.go
package auth

import (
	"time"

	"social_login_backend/internal/common"
	"social_login_backend/internal/shared"

	"go.uber.org/zap"
)

// SessionIssuer converts a resolved user and provider into an opaque session
// token. Pure delegation to the token service; it holds no local state, and a
// failure here is fatal to the login attempt.
type SessionIssuer struct {
	tokens shared.TokenService
	logger *zap.Logger
}

// NewSessionIssuer creates a new session issuer.
func NewSessionIssuer(tokens shared.TokenService, logger *zap.Logger) *SessionIssuer {
	return &SessionIssuer{
		tokens: tokens,
		logger: logger.Named("SessionIssuer"),
	}
}

// Issue mints a session token bound to (provider, user.ID).
func (i *SessionIssuer) Issue(provider string, user *shared.User) (string, time.Time, error) {
	tokenString, expiresAt, err := i.tokens.Generate(provider, user)
	if err != nil {
		i.logger.Error("Session token issuance failed",
			zap.String("userID", user.ID.String()),
			zap.String("provider", provider),
			zap.Error(err))
		return "", time.Time{}, common.ErrTokenIssuance.WithDetails("Could not issue a session token.")
	}
	return tokenString, expiresAt, nil
}
