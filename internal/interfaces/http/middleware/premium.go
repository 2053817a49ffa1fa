package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorbill/internal/shared/logger"
	"tutorbill/internal/shared/utils"
)

// premiumChecker answers whether a tenant currently has premium access.
type premiumChecker interface {
	IsPremium(ctx context.Context, tenantID string) (bool, error)
}

// PremiumMiddleware guards premium feature routes behind the access gate.
type PremiumMiddleware struct {
	checker premiumChecker
	logger  logger.Interface
}

func NewPremiumMiddleware(checker premiumChecker, logger logger.Interface) *PremiumMiddleware {
	return &PremiumMiddleware{
		checker: checker,
		logger:  logger,
	}
}

// RequirePremium aborts with 403 unless the tenant in the route currently
// grants access. Absence of a subscription is an ordinary denial, not an
// error.
func (m *PremiumMiddleware) RequirePremium() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.Param("tenant_id")
		if tenantID == "" {
			utils.ErrorResponse(c, http.StatusBadRequest, "tenant ID is required")
			c.Abort()
			return
		}

		premium, err := m.checker.IsPremium(c.Request.Context(), tenantID)
		if err != nil {
			m.logger.Errorw("premium check failed", "tenant_id", tenantID, "error", err)
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		if !premium {
			m.logger.Debugw("premium access denied", "tenant_id", tenantID)
			utils.ErrorResponse(c, http.StatusForbidden, "an active or trialing subscription is required")
			c.Abort()
			return
		}

		c.Next()
	}
}
