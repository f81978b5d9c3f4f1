// File: internal/middleware/auth.go
package middleware

import (
	"social_login_backend/internal/common"
	"social_login_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionAuthMiddleware creates a Gin middleware that validates the session
// token issued after a social login. The token is read from the Authorization
// header, falling back to the session cookie set by the callback controller.
func SessionAuthMiddleware(
	tokenService shared.TokenService,
	revocations shared.SessionRevocations,
	cookieName string,
	logger *zap.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			if cookie, err := c.Request.Cookie(cookieName); err == nil {
				tokenString = cookie.Value
			}
		}
		if tokenString == "" {
			logger.Debug("Session token missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("A session token is required."))
			return
		}

		claims, err := tokenService.Validate(tokenString)
		if err != nil {
			logger.Warn("Session token validation failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired session token."))
			return
		}

		if revocations != nil {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error("Session revocation check failed", zap.Error(err))
				common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not verify session."))
				return
			}
			if revoked {
				common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Session has been revoked."))
				return
			}
		}

		c.Set(common.UserIDKey, claims.UserID)
		c.Set(common.UserEmailKey, claims.Email)
		c.Set(common.SessionProviderKey, claims.Provider)

		logger.Debug("Session authenticated",
			zap.String("userID", claims.UserID.String()),
			zap.String("provider", claims.Provider),
		)

		c.Next()
	}
}
