// Package gateway defines the outbound contract to the payment provider.
// Use cases depend on these interfaces; the Stripe-backed implementation
// lives in internal/infrastructure/provider.
package gateway

import (
	"context"

	"tutorbill/internal/domain/billing"
)

// CheckoutParams describes a trial checkout negotiation for one tenant.
type CheckoutParams struct {
	TenantID      string
	CustomerEmail string
	// IdempotencyKey is derived from the tenant ID so the provider collapses
	// concurrent checkout creations for the same tenant into one session.
	IdempotencyKey string
}

// CheckoutSession is the provider-hosted page the tenant is redirected to.
type CheckoutSession struct {
	RedirectURL string
}

// Client is the provider API surface the service calls out to. Both methods
// are I/O-bound suspension points and must honor ctx deadlines.
type Client interface {
	CreateTrialCheckout(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	// FetchSubscription pulls the provider's current snapshot for manual
	// re-sync; the result feeds the transition engine like an updated event.
	FetchSubscription(ctx context.Context, subscriptionRef string) (*billing.EventData, error)
}

// EnvelopeVerifier checks inbound event envelopes against the shared secret.
type EnvelopeVerifier interface {
	Verify(payload []byte, signatureHeader string) error
}
