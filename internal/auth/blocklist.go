// File: internal/auth/blocklist.go
package auth

import (
	"context"
	"time"

	"social_login_backend/internal/config"
	"social_login_backend/internal/shared"

	"github.com/patrickmn/go-cache"
)

// InMemorySessionRevocations is an in-memory implementation of
// shared.SessionRevocations backed by an expiring cache. A revoked JTI stays
// listed exactly as long as the token would have been valid.
type InMemorySessionRevocations struct {
	cache *cache.Cache
}

// NewInMemorySessionRevocations creates a new in-memory revocation list.
func NewInMemorySessionRevocations(cfg *config.Config) *InMemorySessionRevocations {
	cleanup := time.Duration(cfg.SessionBlocklistCleanupMin) * time.Minute
	return &InMemorySessionRevocations{
		cache: cache.New(cfg.SessionTokenExpiry, cleanup),
	}
}

// Revoke marks a token JTI as revoked until its natural expiry.
func (s *InMemorySessionRevocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	duration := time.Until(expiresAt)
	if duration <= 0 {
		return nil
	}
	s.cache.Set(jti, true, duration)
	return nil
}

// IsRevoked checks whether a token JTI has been revoked.
func (s *InMemorySessionRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, found := s.cache.Get(jti)
	return found, nil
}

var _ shared.SessionRevocations = (*InMemorySessionRevocations)(nil)
