package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "tutorbill/internal/shared/errors"
	"tutorbill/internal/shared/logger"
)

type mockPremiumChecker struct {
	premium bool
	err     error
}

func (m *mockPremiumChecker) IsPremium(ctx context.Context, tenantID string) (bool, error) {
	return m.premium, m.err
}

func premiumRequest(t *testing.T, checker *mockPremiumChecker, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	mw := NewPremiumMiddleware(checker, logger.NewLogger())
	engine.GET("/organisations/:tenant_id/feature", mw.RequirePremium(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

// =====================================================================
// TestPremiumMiddleware_RequirePremium
// =====================================================================

func TestRequirePremium_PremiumTenant_PassesThrough(t *testing.T) {
	w := premiumRequest(t, &mockPremiumChecker{premium: true}, "/organisations/org_1/feature")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePremium_NonPremiumTenant_403(t *testing.T) {
	w := premiumRequest(t, &mockPremiumChecker{premium: false}, "/organisations/org_1/feature")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePremium_CheckFailure_PropagatesStatus(t *testing.T) {
	checker := &mockPremiumChecker{err: apperrors.NewUnavailableError("database unavailable")}

	w := premiumRequest(t, checker, "/organisations/org_1/feature")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequirePremium_UnexpectedError_500(t *testing.T) {
	checker := &mockPremiumChecker{err: errors.New("boom")}

	w := premiumRequest(t, checker, "/organisations/org_1/feature")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
