// Package http assembles the HTTP surface: repositories, use cases,
// handlers, middleware, and routes.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tutorbill/internal/application/billing/usecases"
	"tutorbill/internal/infrastructure/config"
	"tutorbill/internal/infrastructure/provider"
	"tutorbill/internal/infrastructure/repository"
	"tutorbill/internal/interfaces/http/handlers"
	"tutorbill/internal/interfaces/http/middleware"
	"tutorbill/internal/interfaces/http/routes"
	"tutorbill/internal/shared/db"
	"tutorbill/internal/shared/logger"
)

// Router holds the configured gin engine and its handlers.
type Router struct {
	engine *gin.Engine
	logger logger.Interface
}

// NewRouter wires repositories, use cases, and handlers into a gin engine.
func NewRouter(database *gorm.DB, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.SecurityHeaders())
	if len(cfg.Server.AllowedOrigins) > 0 {
		engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	}

	subscriptionRepo := repository.NewSubscriptionRepository(database, log)
	processedEventRepo := repository.NewProcessedEventRepository(database, log)
	organisationRepo := repository.NewOrganisationRepository(database, log)
	txManager := db.NewTransactionManager(database)

	verifier := provider.NewHMACEnvelopeVerifier(cfg.Provider.WebhookSecret, 0)
	stripeClient := provider.NewStripeClient(cfg.Provider, log)

	ingestUC := usecases.NewIngestProviderEventUseCase(
		verifier,
		subscriptionRepo,
		processedEventRepo,
		organisationRepo,
		txManager,
		time.Duration(cfg.Provider.TimeoutSeconds)*time.Second,
		log,
	)
	startTrialUC := usecases.NewStartTrialUseCase(
		organisationRepo,
		subscriptionRepo,
		stripeClient,
		cfg.Provider.MaxRetries,
		log,
	)
	getUC := usecases.NewGetSubscriptionUseCase(subscriptionRepo, log)
	listPastDueUC := usecases.NewListPastDueUseCase(subscriptionRepo, log)
	resyncUC := usecases.NewResyncSubscriptionUseCase(
		subscriptionRepo,
		stripeClient,
		txManager,
		cfg.Provider.MaxRetries,
		log,
	)

	providerEventHandler := handlers.NewProviderEventHandler(ingestUC, log)
	subscriptionHandler := handlers.NewSubscriptionHandler(startTrialUC, getUC, listPastDueUC, resyncUC, log)

	identityMW := middleware.NewIdentityMiddleware(log)
	premiumMW := middleware.NewPremiumMiddleware(getUC, log)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupBillingRoutes(engine, &routes.BillingRouteConfig{
		ProviderEventHandler: providerEventHandler,
		SubscriptionHandler:  subscriptionHandler,
		IdentityMiddleware:   identityMW,
		PremiumMiddleware:    premiumMW,
	})

	return &Router{
		engine: engine,
		logger: log,
	}
}

// GetEngine returns the underlying gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
