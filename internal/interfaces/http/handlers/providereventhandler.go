package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorbill/internal/application/billing/usecases"
	"tutorbill/internal/shared/logger"
	"tutorbill/internal/shared/utils"
)

// signatureHeader is the header the payment provider signs envelopes with.
const signatureHeader = "X-Signature"

// maxEnvelopeBytes bounds how much of a provider POST we are willing to read.
const maxEnvelopeBytes = 1 << 20

// ProviderEventHandler receives signed subscription event envelopes.
type ProviderEventHandler struct {
	ingestUseCase ingestProviderEventUseCase
	logger        logger.Interface
}

func NewProviderEventHandler(ingestUC ingestProviderEventUseCase, logger logger.Interface) *ProviderEventHandler {
	return &ProviderEventHandler{
		ingestUseCase: ingestUC,
		logger:        logger,
	}
}

// HandleEvent ingests one provider event. The raw body is passed through
// untouched so the signature verification sees exactly the bytes sent.
func (h *ProviderEventHandler) HandleEvent(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEnvelopeBytes))
	if err != nil {
		h.logger.Errorw("failed to read event payload", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	cmd := usecases.IngestProviderEventCommand{
		Payload:   payload,
		Signature: c.GetHeader(signatureHeader),
	}

	result, err := h.ingestUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("event ingestion rejected", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Duplicate {
		utils.SuccessResponse(c, http.StatusOK, "event already processed", gin.H{
			"event_id":  result.EventID,
			"duplicate": true,
		})
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "event processed", gin.H{
		"event_id": result.EventID,
		"applied":  result.Applied,
	})
}
