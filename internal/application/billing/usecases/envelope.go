package usecases

import (
	"encoding/json"
	"fmt"

	"tutorbill/internal/domain/billing"
	"tutorbill/internal/shared/biztime"
)

// eventEnvelope is the wire shape of an inbound provider event. Timestamps
// are unix seconds, zero meaning "not set", matching the provider contract.
type eventEnvelope struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	TenantRef string       `json:"tenant_ref"`
	Payload   eventPayload `json:"payload"`
}

type eventPayload struct {
	Status             *string `json:"status,omitempty"`
	SubscriptionRef    *string `json:"subscription_ref,omitempty"`
	CustomerRef        *string `json:"customer_ref,omitempty"`
	TrialStart         int64   `json:"trial_start,omitempty"`
	TrialEnd           int64   `json:"trial_end,omitempty"`
	CurrentPeriodStart int64   `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   int64   `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  *bool   `json:"cancel_at_period_end,omitempty"`
	CanceledAt         int64   `json:"canceled_at,omitempty"`
}

// parseEnvelope decodes a verified envelope into a typed provider event.
// It rejects envelopes that cannot identify themselves (no event_id) but
// does not reject unknown event types; those flow through as no-ops.
func parseEnvelope(raw []byte) (*billing.ProviderEvent, error) {
	var env eventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("undecodable event envelope: %w", err)
	}
	if env.EventID == "" {
		return nil, fmt.Errorf("event envelope has no event_id")
	}
	if env.EventType == "" {
		return nil, fmt.Errorf("event %s has no event_type", env.EventID)
	}

	data := billing.EventData{
		SubscriptionRef:   env.Payload.SubscriptionRef,
		CustomerRef:       env.Payload.CustomerRef,
		TrialStart:        biztime.FromUnix(env.Payload.TrialStart),
		TrialEnd:          biztime.FromUnix(env.Payload.TrialEnd),
		PeriodStart:       biztime.FromUnix(env.Payload.CurrentPeriodStart),
		PeriodEnd:         biztime.FromUnix(env.Payload.CurrentPeriodEnd),
		CancelAtPeriodEnd: env.Payload.CancelAtPeriodEnd,
		CanceledAt:        biztime.FromUnix(env.Payload.CanceledAt),
	}
	if env.Payload.Status != nil {
		status := billing.Status(*env.Payload.Status)
		if !billing.ValidStatuses[status] {
			return nil, fmt.Errorf("event %s carries unknown status %q", env.EventID, *env.Payload.Status)
		}
		data.Status = &status
	}

	return &billing.ProviderEvent{
		ID:        env.EventID,
		Type:      billing.EventType(env.EventType),
		TenantRef: env.TenantRef,
		Data:      data,
	}, nil
}
