package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorbill/internal/shared/logger"
	"tutorbill/internal/shared/utils"
)

// identityHeader is set by the edge gateway after it authenticates the
// caller. This service trusts it and never sees credentials itself.
const identityHeader = "X-User-ID"

// IdentityMiddleware resolves the authenticated user from the gateway header.
type IdentityMiddleware struct {
	logger logger.Interface
}

func NewIdentityMiddleware(logger logger.Interface) *IdentityMiddleware {
	return &IdentityMiddleware{logger: logger}
}

// RequireIdentity rejects requests that arrive without an authenticated
// user and stores the user ID in the request context for handlers.
func (m *IdentityMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(identityHeader)
		if userID == "" {
			m.logger.Warnw("request missing identity header",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
