// File: internal/auth/handler.go
package auth

import (
	"net/http"

	"social_login_backend/internal/common"
	"social_login_backend/internal/config"
	"social_login_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler orchestrates a login attempt: it receives the provider callback,
// walks the attempt through profile fetch, identity resolution and token
// issuance, and ends in either a redirect to the application home or a
// delegated error response. Failures are terminal; nothing here retries.
type Handler struct {
	registry    *ProviderRegistry
	linker      *IdentityLinker
	issuer      *SessionIssuer
	tokens      shared.TokenService
	revocations shared.SessionRevocations
	cfg         *config.Config
	logger      *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	registry *ProviderRegistry,
	linker *IdentityLinker,
	issuer *SessionIssuer,
	tokens shared.TokenService,
	revocations shared.SessionRevocations,
	cfg *config.Config,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		registry:    registry,
		linker:      linker,
		issuer:      issuer,
		tokens:      tokens,
		revocations: revocations,
		cfg:         cfg,
		logger:      logger.Named("AuthHandler"),
	}
}

// RegisterRoutes sets up the routes for authentication operations. The login
// and callback routes are pre-auth: they must be reachable without an
// existing session.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/:provider/login", h.login)
		authGroup.GET("/:provider/callback", h.callback)
		authGroup.POST("/logout", h.logout)
	}
}

// login initiates the handshake by redirecting to the provider's consent
// screen.
func (h *Handler) login(c *gin.Context) {
	p, err := h.registry.Get(c.Param("provider"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	state, err := generateAndSetOAuthState(c, h.cfg)
	if err != nil {
		h.logger.Error("Failed to generate OAuth state", zap.String("provider", p.Name), zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not initiate login."))
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, p.OAuth.AuthCodeURL(state))
}

// callback is the provider's return trip. States per attempt: Received →
// ProfileFetched → IdentityResolved → TokenIssued → Redirected, with every
// failure terminal for the attempt.
func (h *Handler) callback(c *gin.Context) {
	p, err := h.registry.Get(c.Param("provider"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	// Received. A provider-reported error ends the attempt before any profile
	// fetch or store operation.
	if errParam := c.Query("error"); errParam != "" {
		desc := c.Query("error_description")
		if desc == "" {
			desc = errParam
		}
		h.logger.Warn("Provider reported a callback error",
			zap.String("provider", p.Name),
			zap.String("error", errParam),
			zap.String("description", desc))
		common.RespondWithError(c, common.ErrProviderDenied.WithDetails(desc))
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Missing authorization code or state."))
		return
	}

	storedState, err := getOAuthCookie(c, h.cfg, h.cfg.OAuthStateCookieName)
	if err != nil || state != storedState {
		h.logger.Warn("OAuth state mismatch", zap.String("provider", p.Name))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("OAuth state mismatch."))
		return
	}

	token, err := p.Exchange.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("Authorization code exchange failed", zap.String("provider", p.Name), zap.Error(err))
		common.RespondWithError(c, common.ErrProviderDenied.WithDetails("Could not exchange the authorization code."))
		return
	}

	// ProfileFetched.
	identity, err := p.Fetcher.Fetch(c.Request.Context(), token.AccessToken)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	// IdentityResolved.
	resolved, wasCreated, err := h.linker.Resolve(c.Request.Context(), identity, p.Policy)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	// TokenIssued.
	sessionToken, expiresAt, err := h.issuer.Issue(p.Name, resolved)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	// Redirected. The token is attached to the caller's session context; the
	// redirect target is the application home.
	c.Set(common.SessionTokenKey, sessionToken)
	setSessionCookie(c, h.cfg, sessionToken, expiresAt)

	h.logger.Info("Login successful",
		zap.String("provider", p.Name),
		zap.String("userID", resolved.ID.String()),
		zap.Bool("newAccount", wasCreated))
	c.Redirect(http.StatusFound, h.cfg.AppHomeURL)
}

// logout revokes the presented session token for the remainder of its
// lifetime.
func (h *Handler) logout(c *gin.Context) {
	tokenString := common.GetTokenFromContext(c)
	if tokenString == "" {
		if cookie, err := c.Request.Cookie(h.cfg.SessionTokenCookieName); err == nil {
			tokenString = cookie.Value
		}
	}
	if tokenString == "" {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("A session token is required."))
		return
	}

	claims, err := h.tokens.Validate(tokenString)
	if err != nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired session token."))
		return
	}

	if err := h.revocations.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.logger.Error("Failed to revoke session token", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not revoke session."))
		return
	}

	clearSessionCookie(c, h.cfg)
	common.RespondNoContent(c)
}
