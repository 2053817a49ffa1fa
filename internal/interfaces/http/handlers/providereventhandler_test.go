package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorbill/internal/application/billing/usecases"
	"tutorbill/internal/interfaces/http/handlers/testutil"
	apperrors "tutorbill/internal/shared/errors"
	"tutorbill/internal/shared/logger"
)

type mockIngestUC struct {
	result  *usecases.IngestProviderEventResult
	err     error
	lastCmd usecases.IngestProviderEventCommand
}

func (m *mockIngestUC) Execute(ctx context.Context, cmd usecases.IngestProviderEventCommand) (*usecases.IngestProviderEventResult, error) {
	m.lastCmd = cmd
	return m.result, m.err
}

func postEvent(uc *mockIngestUC, body []byte, signature string) (int, string) {
	h := NewProviderEventHandler(uc, logger.NewLogger())
	headers := map[string]string{}
	if signature != "" {
		headers["X-Signature"] = signature
	}
	c, w := testutil.NewRawTestContext(http.MethodPost, "/events/subscription", body, headers)
	h.HandleEvent(c)
	return w.Code, w.Body.String()
}

// =====================================================================
// TestProviderEventHandler_HandleEvent
// =====================================================================

func TestHandleEvent_Applied_200(t *testing.T) {
	uc := &mockIngestUC{result: &usecases.IngestProviderEventResult{EventID: "evt_1", Applied: true}}

	code, body := postEvent(uc, []byte(`{"event_id":"evt_1"}`), "t=1,v1=aa")

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"applied":true`)

	// The handler must hand the raw body and the signature header through
	// untouched.
	assert.Equal(t, []byte(`{"event_id":"evt_1"}`), uc.lastCmd.Payload)
	assert.Equal(t, "t=1,v1=aa", uc.lastCmd.Signature)
}

func TestHandleEvent_DuplicateReplay_200(t *testing.T) {
	uc := &mockIngestUC{result: &usecases.IngestProviderEventResult{EventID: "evt_1", Duplicate: true}}

	code, body := postEvent(uc, []byte(`{"event_id":"evt_1"}`), "t=1,v1=aa")

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"duplicate":true`)
}

func TestHandleEvent_BadSignature_400(t *testing.T) {
	uc := &mockIngestUC{err: apperrors.NewBadRequestError("event signature verification failed")}

	code, _ := postEvent(uc, []byte(`{}`), "t=1,v1=bad")

	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandleEvent_MalformedEnvelope_400(t *testing.T) {
	uc := &mockIngestUC{err: apperrors.NewValidationError("malformed event envelope")}

	code, _ := postEvent(uc, []byte(`{nope`), "t=1,v1=aa")

	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandleEvent_TransientFailure_503(t *testing.T) {
	uc := &mockIngestUC{err: apperrors.NewUnavailableError("event processing failed, safe to retry")}

	code, body := postEvent(uc, []byte(`{"event_id":"evt_1"}`), "t=1,v1=aa")

	require.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body, "safe to retry")
}
