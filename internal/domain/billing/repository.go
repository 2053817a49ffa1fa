package billing

import "context"

// SubscriptionRepository persists the one-row-per-tenant subscription store.
// Implementations must enforce uniqueness on tenant ID; Create returns
// ErrSubscriptionExists when the key is already taken.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	// GetByTenantID returns nil, nil when the tenant has no subscription.
	GetByTenantID(ctx context.Context, tenantID string) (*Subscription, error)
	// GetByTenantIDForUpdate locks the tenant's row for the duration of the
	// surrounding transaction, serializing concurrent events for one tenant
	// without blocking other tenants.
	GetByTenantIDForUpdate(ctx context.Context, tenantID string) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	// ListByStatus supports operational queries such as listing past_due
	// tenants for dunning.
	ListByStatus(ctx context.Context, status Status) ([]*Subscription, error)
}

// ProcessedEventRepository is the append-only event ledger. Record returns
// ErrEventAlreadyProcessed when the event ID has been seen before.
type ProcessedEventRepository interface {
	Record(ctx context.Context, event *ProcessedEvent) error
}
