package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorbill/internal/domain/billing"
	"tutorbill/internal/domain/organisation"
	apperrors "tutorbill/internal/shared/errors"
)

// --- helpers ---

func newIngestFixture(t *testing.T) (*IngestProviderEventUseCase, *mockSubscriptionRepo, *mockProcessedEventRepo, *mockOrganisationRepo, *mockTxManager) {
	t.Helper()
	subs := newMockSubscriptionRepo()
	events := newMockProcessedEventRepo()
	orgs := newMockOrganisationRepo()
	tm := &mockTxManager{}

	org, err := organisation.ReconstructOrganisation("org_123", "Acme Tutors", "user_1", "owner@acme.test", time.Now(), time.Now())
	require.NoError(t, err)
	orgs.orgs["org_123"] = org

	uc := NewIngestProviderEventUseCase(&mockVerifier{}, subs, events, orgs, tm, 5*time.Second, testLogger())
	return uc, subs, events, orgs, tm
}

func envelopeJSON(t *testing.T, eventID, eventType, tenantRef string, payload map[string]any) []byte {
	t.Helper()
	env := map[string]any{
		"event_id":   eventID,
		"event_type": eventType,
		"tenant_ref": tenantRef,
	}
	if payload != nil {
		env["payload"] = payload
	}
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	return raw
}

func ingest(t *testing.T, uc *IngestProviderEventUseCase, raw []byte) (*IngestProviderEventResult, error) {
	t.Helper()
	return uc.Execute(context.Background(), IngestProviderEventCommand{
		Payload:   raw,
		Signature: "t=1,v1=mock",
	})
}

// =====================================================================
// TestIngestProviderEvent_Execute
// =====================================================================

func TestIngest_CreatedEvent_CreatesSubscription(t *testing.T) {
	uc, subs, events, _, _ := newIngestFixture(t)
	raw := envelopeJSON(t, "evt_1", "created", "org_123", map[string]any{
		"status":           "trialing",
		"subscription_ref": "sub_1",
	})

	result, err := ingest(t, uc, raw)

	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.False(t, result.Duplicate)
	assert.Equal(t, "evt_1", result.EventID)
	require.Len(t, subs.created, 1)
	assert.Equal(t, billing.StatusTrialing, subs.created[0].Status())
	assert.Equal(t, 1, events.records)
}

func TestIngest_DuplicateEvent_AcknowledgedWithoutStateChange(t *testing.T) {
	uc, subs, _, _, _ := newIngestFixture(t)
	raw := envelopeJSON(t, "evt_1", "created", "org_123", map[string]any{"status": "trialing"})

	first, err := ingest(t, uc, raw)
	require.NoError(t, err)
	require.False(t, first.Duplicate)

	second, err := ingest(t, uc, raw)

	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Len(t, subs.created, 1, "replay must not write state again")
}

func TestIngest_InvalidSignature_RejectedBeforeAnyWrite(t *testing.T) {
	subs := newMockSubscriptionRepo()
	events := newMockProcessedEventRepo()
	uc := NewIngestProviderEventUseCase(
		&mockVerifier{err: errors.New("no matching signature")},
		subs, events, newMockOrganisationRepo(), &mockTxManager{}, 5*time.Second, testLogger(),
	)

	_, err := ingest(t, uc, envelopeJSON(t, "evt_1", "created", "org_123", nil))

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeBadRequest, appErr.Type)
	assert.Equal(t, 0, events.records, "invalid signature must not touch the ledger")
}

func TestIngest_MalformedEnvelope_ValidationError(t *testing.T) {
	uc, _, events, _, _ := newIngestFixture(t)

	for name, raw := range map[string][]byte{
		"not json":       []byte("{nope"),
		"no event_id":    envelopeJSON(t, "", "created", "org_123", nil),
		"no event_type":  envelopeJSON(t, "evt_1", "", "org_123", nil),
		"unknown status": envelopeJSON(t, "evt_1", "created", "org_123", map[string]any{"status": "paused"}),
	} {
		_, err := ingest(t, uc, raw)

		require.Error(t, err, name)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr, name)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type, name)
	}
	assert.Equal(t, 0, events.records)
}

func TestIngest_MissingTenantRef_SurfacedAsValidationError(t *testing.T) {
	uc, _, events, _, _ := newIngestFixture(t)

	_, err := ingest(t, uc, envelopeJSON(t, "evt_1", "created", "", nil))

	require.Error(t, err)
	assert.Equal(t, 0, events.records)
}

func TestIngest_UnknownTenant_RolledBack(t *testing.T) {
	uc, subs, _, orgs, _ := newIngestFixture(t)
	delete(orgs.orgs, "org_123")

	_, err := ingest(t, uc, envelopeJSON(t, "evt_1", "created", "org_123", map[string]any{"status": "trialing"}))

	require.Error(t, err)
	assert.Empty(t, subs.created)
}

func TestIngest_UnknownEventType_RecordedNoOp(t *testing.T) {
	uc, subs, events, _, _ := newIngestFixture(t)

	result, err := ingest(t, uc, envelopeJSON(t, "evt_1", "invoice.finalized", "org_123", nil))

	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, 1, events.records, "unknown types still land in the ledger")
	assert.Empty(t, subs.created)

	// Replaying the unknown event is also idempotent.
	replay, err := ingest(t, uc, envelopeJSON(t, "evt_1", "invoice.finalized", "org_123", nil))
	require.NoError(t, err)
	assert.True(t, replay.Duplicate)
}

func TestIngest_PaymentFailed_MarksExistingPastDue(t *testing.T) {
	uc, subs, _, _, _ := newIngestFixture(t)
	_, err := ingest(t, uc, envelopeJSON(t, "evt_1", "created", "org_123", map[string]any{"status": "active"}))
	require.NoError(t, err)

	result, err := ingest(t, uc, envelopeJSON(t, "evt_2", "payment_failed", "org_123", nil))

	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, billing.StatusPastDue, subs.byTenant["org_123"].Status())
}

func TestIngest_TransientCommitFailure_RetriedThenSucceeds(t *testing.T) {
	uc, subs, _, _, tm := newIngestFixture(t)
	tm.errSequence = []error{
		fmt.Errorf("commit: Deadlock found when trying to get lock"),
		nil,
	}

	result, err := ingest(t, uc, envelopeJSON(t, "evt_1", "created", "org_123", map[string]any{"status": "trialing"}))

	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, 2, tm.calls)
	assert.Len(t, subs.created, 1)
}

func TestIngest_PersistentFailure_MapsToUnavailable(t *testing.T) {
	uc, _, _, _, tm := newIngestFixture(t)
	tm.errSequence = []error{
		errors.New("connection refused"),
	}

	_, err := ingest(t, uc, envelopeJSON(t, "evt_1", "created", "org_123", map[string]any{"status": "trialing"}))

	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailableError(err))
}
