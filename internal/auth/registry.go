// File: internal/auth/registry.go
package auth

import (
	"context"
	"fmt"

	"social_login_backend/internal/common"
	"social_login_backend/internal/config"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// OAuthExchange converts an authorization code into an access token. The wire
// protocol behind it (PKCE, token endpoints) is the oauth2 library's concern,
// not this package's. Satisfied by *oauth2.Config.
type OAuthExchange interface {
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// Provider bundles everything one login integration needs: the OAuth client
// configuration for the code exchange, the profile fetcher, and the
// registration policy applied to resolved identities.
type Provider struct {
	Name     string
	OAuth    *oauth2.Config
	Exchange OAuthExchange
	Policy   RegistrationPolicy
	Fetcher  ProfileFetcher
}

// providerEndpoints maps known provider names to their OAuth endpoints and
// identity endpoints.
var providerEndpoints = map[string]struct {
	endpoint   oauth2.Endpoint
	profileURL string
	scopes     []string
}{
	"github": {github.Endpoint, "https://api.github.com/user", []string{"read:user", "user:email"}},
	"google": {google.Endpoint, "https://www.googleapis.com/oauth2/v3/userinfo", []string{"openid", "profile", "email"}},
}

// ProviderRegistry holds the login providers enabled for this process. It is
// populated once during startup and frozen before the server starts serving;
// lookups after that never mutate it.
type ProviderRegistry struct {
	providers map[string]*Provider
	frozen    bool
}

// NewProviderRegistry builds and freezes a registry from the loaded
// configuration. Credentials were already validated at config load; an
// unknown provider name is a startup error.
func NewProviderRegistry(cfg *config.Config, logger *zap.Logger) (*ProviderRegistry, error) {
	r := &ProviderRegistry{providers: make(map[string]*Provider)}
	for _, pc := range cfg.OAuthProviders {
		ep, ok := providerEndpoints[pc.Name]
		if !ok {
			return nil, fmt.Errorf("unknown OAuth provider %q in OAUTH_PROVIDERS", pc.Name)
		}
		p := &Provider{
			Name: pc.Name,
			OAuth: &oauth2.Config{
				ClientID:     pc.ClientID,
				ClientSecret: pc.ClientSecret,
				RedirectURL:  pc.RedirectURI,
				Scopes:       ep.scopes,
				Endpoint:     ep.endpoint,
			},
			Policy: RegistrationPolicy{
				AutoRegister: pc.AutoRegister,
				DefaultRoles: pc.DefaultRoles,
			},
			Fetcher: NewHTTPProfileFetcher(pc.Name, ep.profileURL, logger),
		}
		p.Exchange = p.OAuth
		if err := r.Register(p); err != nil {
			return nil, err
		}
		logger.Info("OAuth provider registered",
			zap.String("provider", pc.Name),
			zap.Bool("autoRegister", pc.AutoRegister),
			zap.Strings("defaultRoles", pc.DefaultRoles))
	}
	r.Freeze()
	return r, nil
}

// Register adds a provider. It fails on duplicates and after Freeze.
func (r *ProviderRegistry) Register(p *Provider) error {
	if r.frozen {
		return fmt.Errorf("provider registry is frozen; cannot register %q", p.Name)
	}
	if _, exists := r.providers[p.Name]; exists {
		return fmt.Errorf("provider %q is already registered", p.Name)
	}
	r.providers[p.Name] = p
	return nil
}

// Freeze marks startup registration as complete.
func (r *ProviderRegistry) Freeze() {
	r.frozen = true
}

// Get returns the named provider.
func (r *ProviderRegistry) Get(name string) (*Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, common.ErrNotFound.WithDetails(fmt.Sprintf("Unknown login provider %q.", name))
	}
	return p, nil
}
