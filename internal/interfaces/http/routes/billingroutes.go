// Package routes provides HTTP route configurations.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorbill/internal/interfaces/http/handlers"
	"tutorbill/internal/interfaces/http/middleware"
)

// BillingRouteConfig holds dependencies for the billing routes.
type BillingRouteConfig struct {
	ProviderEventHandler *handlers.ProviderEventHandler
	SubscriptionHandler  *handlers.SubscriptionHandler
	IdentityMiddleware   *middleware.IdentityMiddleware
	PremiumMiddleware    *middleware.PremiumMiddleware
}

// SetupBillingRoutes configures the provider event intake and the
// tenant-facing subscription routes.
func SetupBillingRoutes(engine *gin.Engine, cfg *BillingRouteConfig) {
	// Provider events authenticate with the envelope signature, never with
	// a user identity.
	events := engine.Group("/events")
	{
		events.POST("/subscription", cfg.ProviderEventHandler.HandleEvent)
	}

	subscription := engine.Group("/organisations/:tenant_id/subscription")
	subscription.Use(cfg.IdentityMiddleware.RequireIdentity())
	{
		subscription.GET("", cfg.SubscriptionHandler.GetSubscription)
		subscription.POST("/trial", cfg.SubscriptionHandler.StartTrial)
		subscription.POST("/resync", cfg.SubscriptionHandler.Resync)
	}

	// Feature routes mount behind the premium gate. Internal services probe
	// the entitlement endpoint instead of re-deriving access from statuses.
	features := engine.Group("/organisations/:tenant_id/features")
	features.Use(cfg.IdentityMiddleware.RequireIdentity())
	features.Use(cfg.PremiumMiddleware.RequirePremium())
	{
		features.GET("/entitlement", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"premium": true})
		})
	}

	admin := engine.Group("/admin")
	admin.Use(cfg.IdentityMiddleware.RequireIdentity())
	{
		admin.GET("/subscriptions/past-due", cfg.SubscriptionHandler.ListPastDue)
	}
}
