// Package dto carries subscription state across the HTTP boundary.
package dto

import (
	"time"

	"tutorbill/internal/domain/billing"
)

// SubscriptionDTO is the outward shape of a tenant's subscription.
// IsPremium is computed by the access gate, never re-derived by clients.
type SubscriptionDTO struct {
	TenantID           string     `json:"tenant_id"`
	SubscriptionRef    *string    `json:"subscription_ref,omitempty"`
	CustomerRef        *string    `json:"customer_ref,omitempty"`
	Status             string     `json:"status"`
	IsPremium          bool       `json:"is_premium"`
	TrialStart         *time.Time `json:"trial_start,omitempty"`
	TrialEnd           *time.Time `json:"trial_end,omitempty"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	CanceledAt         *time.Time `json:"canceled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// FromSubscription converts a domain subscription to its DTO.
func FromSubscription(sub *billing.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}
	return &SubscriptionDTO{
		TenantID:           sub.TenantID(),
		SubscriptionRef:    sub.SubscriptionRef(),
		CustomerRef:        sub.CustomerRef(),
		Status:             sub.Status().String(),
		IsPremium:          billing.IsPremium(sub),
		TrialStart:         sub.TrialStart(),
		TrialEnd:           sub.TrialEnd(),
		CurrentPeriodStart: sub.CurrentPeriodStart(),
		CurrentPeriodEnd:   sub.CurrentPeriodEnd(),
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd(),
		CanceledAt:         sub.CanceledAt(),
		CreatedAt:          sub.CreatedAt(),
		UpdatedAt:          sub.UpdatedAt(),
	}
}

// FromSubscriptions converts a slice of domain subscriptions.
func FromSubscriptions(subs []*billing.Subscription) []*SubscriptionDTO {
	out := make([]*SubscriptionDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, FromSubscription(s))
	}
	return out
}
