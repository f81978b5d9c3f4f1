// File: internal/auth/profile.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"social_login_backend/internal/common"

	"go.uber.org/zap"
)

// ProfileFetcher retrieves the provider's view of the authenticated user and
// normalizes it into an ExternalIdentity.
type ProfileFetcher interface {
	Fetch(ctx context.Context, accessToken string) (*ExternalIdentity, error)
}

type httpProfileFetcher struct {
	provider   string
	profileURL string
	client     *http.Client
	logger     *zap.Logger
}

// NewHTTPProfileFetcher creates a fetcher that calls the given identity
// endpoint with a bearer token. Retries are a generic HTTP-client concern and
// deliberately absent here; the endpoint is called exactly once per attempt.
func NewHTTPProfileFetcher(provider, profileURL string, logger *zap.Logger) ProfileFetcher {
	return &httpProfileFetcher{
		provider:   provider,
		profileURL: profileURL,
		client:     http.DefaultClient,
		logger:     logger.Named("ProfileFetcher"),
	}
}

// profilePayload covers the field names used by GitHub-style (id/login/name/
// email, optional emails list) and OpenID-style (sub/name/email) profile
// endpoints.
type profilePayload struct {
	ID     json.Number `json:"id"`
	Sub    string      `json:"sub"`
	Login  string      `json:"login"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Emails []struct {
		Email    string `json:"email"`
		Verified bool   `json:"verified"`
	} `json:"emails"`
}

func (f *httpProfileFetcher) Fetch(ctx context.Context, accessToken string) (*ExternalIdentity, error) {
	if accessToken == "" {
		return nil, common.ErrIdentityIncomplete.WithDetails("No access token supplied for the profile call.")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.profileURL, nil)
	if err != nil {
		return nil, common.ErrInternalServer.WithDetails("Could not build provider profile request.")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("Provider profile request failed", zap.String("provider", f.provider), zap.Error(err))
		return nil, common.ErrServiceUnavailable.WithDetails(
			fmt.Sprintf("Could not reach the %s identity endpoint.", f.provider))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Error("Provider profile request returned non-OK status",
			zap.String("provider", f.provider), zap.Int("status", resp.StatusCode))
		return nil, common.ErrIdentityIncomplete.WithDetails(
			fmt.Sprintf("The %s identity endpoint returned status %d.", f.provider, resp.StatusCode))
	}

	var payload profilePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		f.logger.Error("Failed to decode provider profile", zap.String("provider", f.provider), zap.Error(err))
		return nil, common.ErrIdentityIncomplete.WithDetails("Could not parse the provider profile response.")
	}

	return f.normalize(&payload)
}

func (f *httpProfileFetcher) normalize(p *profilePayload) (*ExternalIdentity, error) {
	providerUserID := p.Sub
	if providerUserID == "" {
		providerUserID = p.ID.String()
	}
	if providerUserID == "" || providerUserID == "0" {
		providerUserID = p.Login
	}
	if providerUserID == "" {
		return nil, common.ErrIdentityIncomplete.WithDetails("The provider profile is missing a user identifier.")
	}

	var emails []string
	seen := make(map[string]bool)
	appendEmail := func(e string) {
		if e != "" && !seen[e] {
			seen[e] = true
			emails = append(emails, e)
		}
	}
	appendEmail(p.Email)
	for _, entry := range p.Emails {
		if entry.Verified {
			appendEmail(entry.Email)
		}
	}
	if len(emails) == 0 {
		return nil, common.ErrIdentityIncomplete.WithDetails("The provider profile contains no email addresses.")
	}

	displayName := p.Name
	if displayName == "" {
		displayName = p.Login
	}

	return &ExternalIdentity{
		Provider:       f.provider,
		ProviderUserID: providerUserID,
		Emails:         emails,
		DisplayName:    displayName,
	}, nil
}
