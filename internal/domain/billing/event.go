package billing

import "time"

// EventType discriminates provider events. Unknown values are carried
// through untouched; the transition engine treats them as no-ops so new
// provider event types never break ingestion.
type EventType string

const (
	EventCreated          EventType = "created"
	EventUpdated          EventType = "updated"
	EventDeleted          EventType = "deleted"
	EventPaymentSucceeded EventType = "payment_succeeded"
	EventPaymentFailed    EventType = "payment_failed"
)

// Known reports whether the event type is one the transition engine acts on.
func (t EventType) Known() bool {
	switch t {
	case EventCreated, EventUpdated, EventDeleted, EventPaymentSucceeded, EventPaymentFailed:
		return true
	}
	return false
}

// ProviderEvent is a provider notification after envelope verification and
// parsing. TenantRef is the correlation identifier embedded by the provider;
// events without one never reach the transition engine.
type ProviderEvent struct {
	ID        string
	Type      EventType
	TenantRef string
	Data      EventData
}

// EventData is the subscription snapshot carried by created/updated events.
// Pointer fields distinguish "absent from payload" from zero values; the
// shortcut events (payment_succeeded, payment_failed) carry none of them.
type EventData struct {
	Status            *Status
	SubscriptionRef   *string
	CustomerRef       *string
	TrialStart        *time.Time
	TrialEnd          *time.Time
	PeriodStart       *time.Time
	PeriodEnd         *time.Time
	CancelAtPeriodEnd *bool
	CanceledAt        *time.Time
}
