package usecases

import (
	"context"

	"tutorbill/internal/application/billing/gateway"
	"tutorbill/internal/domain/billing"
	"tutorbill/internal/domain/organisation"
	"tutorbill/internal/shared/logger"
)

// =====================================================================
// Shared mocks for use-case tests
// =====================================================================

func testLogger() logger.Interface {
	return logger.NewLogger()
}

type mockVerifier struct {
	err error
}

func (m *mockVerifier) Verify(payload []byte, signatureHeader string) error {
	return m.err
}

// mockTxManager runs the function directly; errors pass through unchanged.
type mockTxManager struct {
	// errSequence, when non-empty, is returned per call before running fn,
	// simulating transient commit failures.
	errSequence []error
	calls       int
}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if len(m.errSequence) > 0 {
		err := m.errSequence[0]
		m.errSequence = m.errSequence[1:]
		if err != nil {
			return err
		}
	}
	return fn(ctx)
}

type mockSubscriptionRepo struct {
	byTenant map[string]*billing.Subscription

	createErr error
	getErr    error
	updateErr error

	created []*billing.Subscription
	updated []*billing.Subscription
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{byTenant: make(map[string]*billing.Subscription)}
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, sub *billing.Subscription) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byTenant[sub.TenantID()]; ok {
		return billing.ErrSubscriptionExists
	}
	m.byTenant[sub.TenantID()] = sub
	m.created = append(m.created, sub)
	return nil
}

func (m *mockSubscriptionRepo) GetByTenantID(ctx context.Context, tenantID string) (*billing.Subscription, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.byTenant[tenantID], nil
}

func (m *mockSubscriptionRepo) GetByTenantIDForUpdate(ctx context.Context, tenantID string) (*billing.Subscription, error) {
	return m.GetByTenantID(ctx, tenantID)
}

func (m *mockSubscriptionRepo) Update(ctx context.Context, sub *billing.Subscription) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.byTenant[sub.TenantID()] = sub
	m.updated = append(m.updated, sub)
	return nil
}

func (m *mockSubscriptionRepo) ListByStatus(ctx context.Context, status billing.Status) ([]*billing.Subscription, error) {
	var out []*billing.Subscription
	for _, sub := range m.byTenant {
		if sub.Status() == status {
			out = append(out, sub)
		}
	}
	return out, nil
}

type mockProcessedEventRepo struct {
	seen      map[string]bool
	recordErr error
	records   int
}

func newMockProcessedEventRepo() *mockProcessedEventRepo {
	return &mockProcessedEventRepo{seen: make(map[string]bool)}
}

func (m *mockProcessedEventRepo) Record(ctx context.Context, event *billing.ProcessedEvent) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	if m.seen[event.EventID] {
		return billing.ErrEventAlreadyProcessed
	}
	m.seen[event.EventID] = true
	m.records++
	return nil
}

type mockOrganisationRepo struct {
	orgs   map[string]*organisation.Organisation
	getErr error
}

func newMockOrganisationRepo() *mockOrganisationRepo {
	return &mockOrganisationRepo{orgs: make(map[string]*organisation.Organisation)}
}

func (m *mockOrganisationRepo) GetByID(ctx context.Context, id string) (*organisation.Organisation, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.orgs[id], nil
}

type mockProviderClient struct {
	session     *gateway.CheckoutSession
	checkoutErr error
	// failuresBeforeSuccess makes the first N checkout calls fail, then succeed.
	failuresBeforeSuccess int
	checkoutCalls         int

	snapshot *billing.EventData
	fetchErr error
}

func (m *mockProviderClient) CreateTrialCheckout(ctx context.Context, params gateway.CheckoutParams) (*gateway.CheckoutSession, error) {
	m.checkoutCalls++
	if m.checkoutCalls <= m.failuresBeforeSuccess {
		return nil, m.checkoutErr
	}
	if m.checkoutErr != nil && m.failuresBeforeSuccess == 0 {
		return nil, m.checkoutErr
	}
	return m.session, nil
}

func (m *mockProviderClient) FetchSubscription(ctx context.Context, subscriptionRef string) (*billing.EventData, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.snapshot, nil
}
