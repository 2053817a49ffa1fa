package billing

import (
	"fmt"
	"time"
)

// Subscription is the aggregate holding one tenant's billing state. There is
// at most one row per tenant; cancellation is a terminal status, never a
// deletion. State moves only through the transition engine in this package.
type Subscription struct {
	id                 uint
	tenantID           string
	subscriptionRef    *string
	customerRef        *string
	status             Status
	trialStart         *time.Time
	trialEnd           *time.Time
	currentPeriodStart time.Time
	currentPeriodEnd   time.Time
	cancelAtPeriodEnd  bool
	canceledAt         *time.Time
	createdAt          time.Time
	updatedAt          time.Time
}

// NewPendingSubscription creates the optimistic row written at trial
// provisioning time, before the provider has emitted anything. The billing
// window is a placeholder until the first event snapshot overwrites it.
func NewPendingSubscription(tenantID string, now time.Time) (*Subscription, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}

	now = now.UTC()
	return &Subscription{
		tenantID:           tenantID,
		status:             StatusIncomplete,
		currentPeriodStart: now,
		currentPeriodEnd:   now,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// SubscriptionReconstructParams carries persisted state back into the domain.
type SubscriptionReconstructParams struct {
	ID                 uint
	TenantID           string
	SubscriptionRef    *string
	CustomerRef        *string
	Status             Status
	TrialStart         *time.Time
	TrialEnd           *time.Time
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	CanceledAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.TenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if !ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if p.CurrentPeriodEnd.Before(p.CurrentPeriodStart) {
		return nil, fmt.Errorf("current period end must not precede its start")
	}

	return &Subscription{
		id:                 p.ID,
		tenantID:           p.TenantID,
		subscriptionRef:    p.SubscriptionRef,
		customerRef:        p.CustomerRef,
		status:             p.Status,
		trialStart:         p.TrialStart,
		trialEnd:           p.TrialEnd,
		currentPeriodStart: p.CurrentPeriodStart,
		currentPeriodEnd:   p.CurrentPeriodEnd,
		cancelAtPeriodEnd:  p.CancelAtPeriodEnd,
		canceledAt:         p.CanceledAt,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                      { return s.id }
func (s *Subscription) TenantID() string              { return s.tenantID }
func (s *Subscription) SubscriptionRef() *string      { return s.subscriptionRef }
func (s *Subscription) CustomerRef() *string          { return s.customerRef }
func (s *Subscription) Status() Status                { return s.status }
func (s *Subscription) TrialStart() *time.Time        { return s.trialStart }
func (s *Subscription) TrialEnd() *time.Time          { return s.trialEnd }
func (s *Subscription) CurrentPeriodStart() time.Time { return s.currentPeriodStart }
func (s *Subscription) CurrentPeriodEnd() time.Time   { return s.currentPeriodEnd }
func (s *Subscription) CancelAtPeriodEnd() bool       { return s.cancelAtPeriodEnd }
func (s *Subscription) CanceledAt() *time.Time        { return s.canceledAt }
func (s *Subscription) CreatedAt() time.Time          { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time          { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use).
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// applySnapshot adopts a full provider snapshot. Overwrite, not merge: the
// provider sends the complete current truth on every created/updated event,
// so last-applied-wins keeps out-of-order delivery harmless.
func (s *Subscription) applySnapshot(data EventData, now time.Time) {
	if data.Status != nil {
		s.status = *data.Status
	}
	if data.SubscriptionRef != nil {
		s.subscriptionRef = data.SubscriptionRef
	}
	if data.CustomerRef != nil {
		s.customerRef = data.CustomerRef
	}
	s.trialStart = data.TrialStart
	s.trialEnd = data.TrialEnd
	if data.PeriodStart != nil {
		s.currentPeriodStart = data.PeriodStart.UTC()
	}
	if data.PeriodEnd != nil {
		s.currentPeriodEnd = data.PeriodEnd.UTC()
	}
	if data.CancelAtPeriodEnd != nil {
		s.cancelAtPeriodEnd = *data.CancelAtPeriodEnd
	}
	// canceledAt is audit history: set once on entering canceled, never cleared.
	if s.status == StatusCanceled && s.canceledAt == nil {
		if data.CanceledAt != nil {
			s.canceledAt = data.CanceledAt
		} else {
			ts := now.UTC()
			s.canceledAt = &ts
		}
	}
	s.updatedAt = now.UTC()
}

// markCanceled applies a deleted event.
func (s *Subscription) markCanceled(now time.Time) {
	s.status = StatusCanceled
	if s.canceledAt == nil {
		ts := now.UTC()
		s.canceledAt = &ts
	}
	s.updatedAt = now.UTC()
}

// markActive applies the payment_succeeded shortcut.
func (s *Subscription) markActive(now time.Time) {
	s.status = StatusActive
	s.updatedAt = now.UTC()
}

// markPastDue applies the payment_failed shortcut.
func (s *Subscription) markPastDue(now time.Time) {
	s.status = StatusPastDue
	s.updatedAt = now.UTC()
}
