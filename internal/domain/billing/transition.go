package billing

import (
	"fmt"
	"time"
)

// TransitionResult reports what the engine decided for one event.
type TransitionResult struct {
	// Subscription is the state to persist. Nil with Applied=false means
	// there is nothing to write (no row exists and the event cannot create one).
	Subscription *Subscription
	// Applied is false when the event was a recognized no-op: unknown type,
	// shortcut event with no matching state, or deleted with no row.
	Applied bool
}

// Transition maps (current state, incoming event) to the next state. It is
// the only writer of subscription status in the system. Deterministic and
// free of I/O; `now` is injected so callers control the clock.
//
//	absent  + created/updated    -> new row from the snapshot
//	any     + created/updated    -> adopt the snapshot verbatim (provider is authoritative)
//	any     + deleted            -> canceled, canceled_at set once
//	trialing|past_due + payment_succeeded -> active
//	any     + payment_failed     -> past_due
//	any     + unknown type       -> no-op
//
// Ordering across events is not assumed; snapshots overwrite whole-field so
// a late-arriving authoritative update always wins.
func Transition(current *Subscription, ev ProviderEvent, now time.Time) (TransitionResult, error) {
	switch ev.Type {
	case EventCreated, EventUpdated:
		if current == nil {
			sub, err := subscriptionFromSnapshot(ev, now)
			if err != nil {
				return TransitionResult{}, err
			}
			return TransitionResult{Subscription: sub, Applied: true}, nil
		}
		current.applySnapshot(ev.Data, now)
		return TransitionResult{Subscription: current, Applied: true}, nil

	case EventDeleted:
		if current == nil {
			return TransitionResult{}, nil
		}
		current.markCanceled(now)
		return TransitionResult{Subscription: current, Applied: true}, nil

	case EventPaymentSucceeded:
		if current == nil {
			return TransitionResult{}, nil
		}
		// First successful charge confirms trial->paid, or recovers past_due.
		// Anything else is left for the next authoritative snapshot.
		if current.Status() == StatusTrialing || current.Status() == StatusPastDue {
			current.markActive(now)
			return TransitionResult{Subscription: current, Applied: true}, nil
		}
		return TransitionResult{Subscription: current, Applied: false}, nil

	case EventPaymentFailed:
		if current == nil {
			return TransitionResult{}, nil
		}
		current.markPastDue(now)
		return TransitionResult{Subscription: current, Applied: true}, nil

	default:
		// Forward compatible: unknown event types are accepted upstream and
		// ignored here.
		return TransitionResult{Subscription: current, Applied: false}, nil
	}
}

// subscriptionFromSnapshot builds the first row for a tenant from a
// created/updated snapshot.
func subscriptionFromSnapshot(ev ProviderEvent, now time.Time) (*Subscription, error) {
	if ev.TenantRef == "" {
		return nil, fmt.Errorf("event %s has no tenant reference", ev.ID)
	}

	sub, err := NewPendingSubscription(ev.TenantRef, now)
	if err != nil {
		return nil, err
	}
	// Only a created event without an explicit status opens a trial. A
	// statusless updated snapshot for a tenant with no row stays incomplete
	// until the provider says otherwise.
	if ev.Data.Status == nil && ev.Type == EventCreated {
		sub.status = StatusTrialing
	}
	sub.applySnapshot(ev.Data, now)
	return sub, nil
}
