package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"social_login_backend/internal/common"
	"social_login_backend/internal/config"
	"social_login_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type fakeExchange struct {
	token *oauth2.Token
	err   error
	calls int
}

func (f *fakeExchange) Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

type fakeFetcher struct {
	identity *ExternalIdentity
	err      error
	calls    int
}

func (f *fakeFetcher) Fetch(ctx context.Context, accessToken string) (*ExternalIdentity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type handlerFixture struct {
	router      *gin.Engine
	cfg         *config.Config
	store       *fakeUserStore
	exchange    *fakeExchange
	fetcher     *fakeFetcher
	tokens      shared.TokenService
	revocations *InMemorySessionRevocations
}

func newHandlerFixture(t *testing.T, policy RegistrationPolicy) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecretKey:               "test-secret-key-very-long-and-secure",
		SessionTokenExpiry:         15 * time.Minute,
		SessionTokenCookieName:     "session_token",
		SessionBlocklistCleanupMin: 10,
		OAuthStateCookieName:       "oauth_state",
		OAuthCookieMaxAgeMinutes:   10,
		OAuthCookieHTTPOnly:        true,
		OAuthCookieSameSite:        "Lax",
		AppHomeURL:                 "/",
	}

	exchange := &fakeExchange{token: &oauth2.Token{AccessToken: "provider-access-token"}}
	fetcher := &fakeFetcher{identity: &ExternalIdentity{
		Provider:       "github",
		ProviderUserID: "12345",
		Emails:         []string{"ada@example.com"},
		DisplayName:    "Ada Lovelace",
	}}

	registry := &ProviderRegistry{providers: map[string]*Provider{}}
	require.NoError(t, registry.Register(&Provider{
		Name: "github",
		OAuth: &oauth2.Config{
			ClientID:    "gh-client",
			RedirectURL: "https://app.example.com/api/v1/auth/github/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://github.example.com/login/oauth/authorize",
				TokenURL: "https://github.example.com/login/oauth/access_token",
			},
		},
		Exchange: exchange,
		Policy:   policy,
		Fetcher:  fetcher,
	}))
	registry.Freeze()

	store := newFakeUserStore()
	logger := zap.NewNop()
	linker := NewIdentityLinker(store, &fakeRoleStore{}, logger)
	tokens := NewJWTService(cfg, logger)
	issuer := NewSessionIssuer(tokens, logger)
	revocations := NewInMemorySessionRevocations(cfg)

	handler := NewHandler(registry, linker, issuer, tokens, revocations, cfg, logger)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	return &handlerFixture{
		router:      router,
		cfg:         cfg,
		store:       store,
		exchange:    exchange,
		fetcher:     fetcher,
		tokens:      tokens,
		revocations: revocations,
	}
}

func (f *handlerFixture) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func sessionCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login_RedirectsToConsentScreen(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})

	w := f.get("/api/v1/auth/github/login")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "github.example.com", location.Host)
	assert.Equal(t, "gh-client", location.Query().Get("client_id"))

	stateCookie := sessionCookie(w, f.cfg.OAuthStateCookieName)
	require.NotNil(t, stateCookie, "login must set the state cookie")
	assert.Equal(t, stateCookie.Value, location.Query().Get("state"),
		"redirect state and cookie state must match")
}

func TestAuthHandler_Login_UnknownProvider(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})

	w := f.get("/api/v1/auth/gitlab/login")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestAuthHandler_Callback_ProviderErrorShortCircuits(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})

	w := f.get("/api/v1/auth/github/callback?error=access_denied&error_description=The+user+declined")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "PROVIDER_DENIED", errorCode(t, w))

	assert.Equal(t, 0, f.exchange.calls, "no code exchange after a provider-reported error")
	assert.Equal(t, 0, f.fetcher.calls, "no profile fetch after a provider-reported error")
	assert.Equal(t, 0, f.store.findCalls, "no store access after a provider-reported error")
	assert.Equal(t, 0, f.store.createCalls)
}

func TestAuthHandler_Callback_MissingCodeOrState(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})

	w := f.get("/api/v1/auth/github/callback?code=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, w))

	w = f.get("/api/v1/auth/github/callback?state=xyz")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, f.exchange.calls)
}

func TestAuthHandler_Callback_StateMismatch(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})

	w := f.get("/api/v1/auth/github/callback?code=abc&state=forged",
		&http.Cookie{Name: f.cfg.OAuthStateCookieName, Value: "expected"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, w))
	assert.Equal(t, 0, f.exchange.calls)
}

func TestAuthHandler_Callback_ExchangeFailure(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})
	f.exchange.err = context.DeadlineExceeded

	w := f.get("/api/v1/auth/github/callback?code=abc&state=xyz",
		&http.Cookie{Name: f.cfg.OAuthStateCookieName, Value: "xyz"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "PROVIDER_DENIED", errorCode(t, w))
	assert.Equal(t, 0, f.fetcher.calls)
}

func TestAuthHandler_Callback_IncompleteProfileIsForwarded(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})
	f.fetcher.err = common.ErrIdentityIncomplete.WithDetails("The provider profile contains no email addresses.")

	w := f.get("/api/v1/auth/github/callback?code=abc&state=xyz",
		&http.Cookie{Name: f.cfg.OAuthStateCookieName, Value: "xyz"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "IDENTITY_INCOMPLETE", errorCode(t, w))
	assert.Equal(t, 0, f.store.createCalls)
}

func TestAuthHandler_Callback_RejectionIsForwarded(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: false})

	w := f.get("/api/v1/auth/github/callback?code=abc&state=xyz",
		&http.Cookie{Name: f.cfg.OAuthStateCookieName, Value: "xyz"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "LOGIN_REJECTED", errorCode(t, w))
	assert.Equal(t, 0, f.store.createCalls)
}

func TestAuthHandler_Callback_SuccessIssuesSessionAndRedirectsHome(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})

	w := f.get("/api/v1/auth/github/callback?code=abc&state=xyz",
		&http.Cookie{Name: f.cfg.OAuthStateCookieName, Value: "xyz"})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))

	assert.Equal(t, 1, f.exchange.calls)
	assert.Equal(t, 1, f.fetcher.calls)
	assert.Equal(t, 1, f.store.createCalls)

	cookie := sessionCookie(w, f.cfg.SessionTokenCookieName)
	require.NotNil(t, cookie, "success must set the session cookie")

	claims, err := f.tokens.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "github", claims.Provider)
	assert.Equal(t, "ada@example.com", claims.Email)

	created := f.store.byEmail["ada@example.com"]
	require.NotNil(t, created)
	assert.Equal(t, created.ID, claims.UserID)
}

func TestAuthHandler_Logout_RevokesSession(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})

	// Log in first to obtain a session token.
	w := f.get("/api/v1/auth/github/callback?code=abc&state=xyz",
		&http.Cookie{Name: f.cfg.OAuthStateCookieName, Value: "xyz"})
	require.Equal(t, http.StatusFound, w.Code)
	cookie := sessionCookie(w, f.cfg.SessionTokenCookieName)
	require.NotNil(t, cookie)

	claims, err := f.tokens.Validate(cookie.Value)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	lw := httptest.NewRecorder()
	f.router.ServeHTTP(lw, req)
	assert.Equal(t, http.StatusNoContent, lw.Code)

	revoked, err := f.revocations.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	cleared := sessionCookie(lw, f.cfg.SessionTokenCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestAuthHandler_Logout_AcceptsCookieToken(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})

	w := f.get("/api/v1/auth/github/callback?code=abc&state=xyz",
		&http.Cookie{Name: f.cfg.OAuthStateCookieName, Value: "xyz"})
	require.Equal(t, http.StatusFound, w.Code)
	cookie := sessionCookie(w, f.cfg.SessionTokenCookieName)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: f.cfg.SessionTokenCookieName, Value: cookie.Value})
	lw := httptest.NewRecorder()
	f.router.ServeHTTP(lw, req)
	assert.Equal(t, http.StatusNoContent, lw.Code)
}

func TestAuthHandler_Logout_WithoutToken(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
}

func TestAuthHandler_Logout_WithInvalidToken(t *testing.T) {
	f := newHandlerFixture(t, RegistrationPolicy{AutoRegister: true})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
