package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorbill/internal/domain/billing"
	apperrors "tutorbill/internal/shared/errors"
)

// --- helpers ---

func resyncFixture(t *testing.T, provider *mockProviderClient) (*ResyncSubscriptionUseCase, *mockSubscriptionRepo) {
	t.Helper()
	subs := newMockSubscriptionRepo()
	uc := NewResyncSubscriptionUseCase(subs, provider, &mockTxManager{}, 1, testLogger())
	return uc, subs
}

func subWithRef(t *testing.T, tenantID string, status billing.Status, ref string) *billing.Subscription {
	t.Helper()
	now := time.Now().UTC()
	params := billing.SubscriptionReconstructParams{
		ID:                 1,
		TenantID:           tenantID,
		Status:             status,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if ref != "" {
		params.SubscriptionRef = &ref
	}
	sub, err := billing.ReconstructSubscription(params)
	require.NoError(t, err)
	return sub
}

// =====================================================================
// TestResyncSubscription_Execute
// =====================================================================

func TestResync_AdoptsProviderSnapshot(t *testing.T) {
	status := billing.StatusActive
	provider := &mockProviderClient{snapshot: &billing.EventData{Status: &status}}
	uc, subs := resyncFixture(t, provider)
	subs.byTenant["org_123"] = subWithRef(t, "org_123", billing.StatusPastDue, "sub_1")

	result, err := uc.Execute(context.Background(), "org_123")

	require.NoError(t, err)
	assert.Equal(t, string(billing.StatusActive), result.Status)
	assert.Equal(t, billing.StatusActive, subs.byTenant["org_123"].Status())
	require.Len(t, subs.updated, 1)
}

func TestResync_NoSubscription_NotFound(t *testing.T) {
	uc, _ := resyncFixture(t, &mockProviderClient{})

	_, err := uc.Execute(context.Background(), "org_123")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestResync_NoProviderRef_ValidationError(t *testing.T) {
	uc, subs := resyncFixture(t, &mockProviderClient{})
	subs.byTenant["org_123"] = subWithRef(t, "org_123", billing.StatusIncomplete, "")

	_, err := uc.Execute(context.Background(), "org_123")

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestResync_ProviderDown_Unavailable(t *testing.T) {
	provider := &mockProviderClient{fetchErr: errors.New("connection refused")}
	uc, subs := resyncFixture(t, provider)
	subs.byTenant["org_123"] = subWithRef(t, "org_123", billing.StatusActive, "sub_1")

	_, err := uc.Execute(context.Background(), "org_123")

	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailableError(err))
	assert.Empty(t, subs.updated, "nothing written when the fetch fails")
}

// Running a resync twice against the same snapshot converges to the same
// state; snapshot overwrite keeps it safe to repeat.
func TestResync_Idempotent(t *testing.T) {
	status := billing.StatusCanceled
	canceledAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	provider := &mockProviderClient{snapshot: &billing.EventData{Status: &status, CanceledAt: &canceledAt}}
	uc, subs := resyncFixture(t, provider)
	subs.byTenant["org_123"] = subWithRef(t, "org_123", billing.StatusActive, "sub_1")

	first, err := uc.Execute(context.Background(), "org_123")
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), "org_123")
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	require.NotNil(t, subs.byTenant["org_123"].CanceledAt())
	assert.Equal(t, canceledAt, *subs.byTenant["org_123"].CanceledAt())
}
