package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorbill/internal/application/billing/usecases"
	"tutorbill/internal/shared/logger"
	"tutorbill/internal/shared/utils"
)

// SubscriptionHandler serves tenant-facing subscription operations.
type SubscriptionHandler struct {
	startTrialUseCase startTrialUseCase
	getUseCase        getSubscriptionUseCase
	listPastDueUC     listPastDueUseCase
	resyncUseCase     resyncSubscriptionUseCase
	logger            logger.Interface
}

func NewSubscriptionHandler(
	startTrialUC startTrialUseCase,
	getUC getSubscriptionUseCase,
	listPastDueUC listPastDueUseCase,
	resyncUC resyncSubscriptionUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		startTrialUseCase: startTrialUC,
		getUseCase:        getUC,
		listPastDueUC:     listPastDueUC,
		resyncUseCase:     resyncUC,
		logger:            logger,
	}
}

// StartTrialRequest carries the optional billing email for checkout prefill.
type StartTrialRequest struct {
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
}

// StartTrialResponse returns the provider-hosted checkout URL.
type StartTrialResponse struct {
	RedirectURL string `json:"redirect_url"`
}

func (h *SubscriptionHandler) StartTrial(c *gin.Context) {
	requesterID, exists := c.Get("user_id")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req StartTrialRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warnw("failed to bind trial request", "error", err)
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}
	}

	cmd := usecases.StartTrialCommand{
		TenantID:      c.Param("tenant_id"),
		RequesterID:   requesterID.(string),
		CustomerEmail: req.CustomerEmail,
	}

	result, err := h.startTrialUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("failed to start trial", "tenant_id", cmd.TenantID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "trial checkout created", StartTrialResponse{
		RedirectURL: result.RedirectURL,
	})
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	sub, err := h.getUseCase.Execute(c.Request.Context(), tenantID)
	if err != nil {
		h.logger.Errorw("failed to get subscription", "tenant_id", tenantID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if sub == nil {
		utils.SuccessResponse(c, http.StatusOK, "no subscription on record", gin.H{
			"subscription": nil,
			"is_premium":   false,
		})
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription retrieved", gin.H{
		"subscription": sub,
		"is_premium":   sub.IsPremium,
	})
}

func (h *SubscriptionHandler) ListPastDue(c *gin.Context) {
	subs, err := h.listPastDueUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list past due subscriptions", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "past due subscriptions retrieved", gin.H{
		"subscriptions": subs,
		"total":         len(subs),
	})
}

func (h *SubscriptionHandler) Resync(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	sub, err := h.resyncUseCase.Execute(c.Request.Context(), tenantID)
	if err != nil {
		h.logger.Warnw("failed to resync subscription", "tenant_id", tenantID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription resynced", gin.H{
		"subscription": sub,
		"is_premium":   sub.IsPremium,
	})
}
