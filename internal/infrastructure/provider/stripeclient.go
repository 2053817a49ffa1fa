package provider

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"tutorbill/internal/application/billing/gateway"
	"tutorbill/internal/domain/billing"
	"tutorbill/internal/shared/biztime"
	"tutorbill/internal/shared/config"
	"tutorbill/internal/shared/logger"
)

// StripeClient implements gateway.Client against the Stripe API. All calls
// carry the request context so the use-case deadlines bound them.
type StripeClient struct {
	api    *client.API
	cfg    config.ProviderConfig
	logger logger.Interface
}

func NewStripeClient(cfg config.ProviderConfig, logger logger.Interface) *StripeClient {
	return &StripeClient{
		api:    client.New(cfg.APIKey, nil),
		cfg:    cfg,
		logger: logger,
	}
}

func (c *StripeClient) CreateTrialCheckout(ctx context.Context, p gateway.CheckoutParams) (*gateway.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(c.cfg.SuccessURL),
		CancelURL:         stripe.String(c.cfg.CancelURL),
		ClientReferenceID: stripe.String(p.TenantID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.cfg.TrialPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(int64(c.cfg.TrialDays)),
			// The tenant reference travels in metadata so every event the
			// provider emits can be correlated back without guessing.
			Metadata: map[string]string{"tenant_id": p.TenantID},
		},
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.SetIdempotencyKey(p.IdempotencyKey)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	c.logger.Infow("checkout session created", "tenant_id", p.TenantID, "session_id", sess.ID)
	return &gateway.CheckoutSession{RedirectURL: sess.URL}, nil
}

func (c *StripeClient) FetchSubscription(ctx context.Context, subscriptionRef string) (*billing.EventData, error) {
	params := &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
	}
	sub, err := c.api.Subscriptions.Get(subscriptionRef, params)
	if err != nil {
		return nil, fmt.Errorf("fetch subscription %s: %w", subscriptionRef, err)
	}
	return snapshotFromStripe(sub)
}

// snapshotFromStripe maps a Stripe subscription object into the abstract
// event snapshot the transition engine consumes.
func snapshotFromStripe(sub *stripe.Subscription) (*billing.EventData, error) {
	status := billing.Status(sub.Status)
	if !billing.ValidStatuses[status] {
		return nil, fmt.Errorf("subscription %s has unmapped status %q", sub.ID, sub.Status)
	}

	data := &billing.EventData{
		Status:            &status,
		SubscriptionRef:   stripe.String(sub.ID),
		TrialStart:        biztime.FromUnix(sub.TrialStart),
		TrialEnd:          biztime.FromUnix(sub.TrialEnd),
		CancelAtPeriodEnd: stripe.Bool(sub.CancelAtPeriodEnd),
		CanceledAt:        biztime.FromUnix(sub.CanceledAt),
	}
	if sub.Customer != nil {
		data.CustomerRef = stripe.String(sub.Customer.ID)
	}
	// The billing window lives on the subscription item.
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		data.PeriodStart = biztime.FromUnix(item.CurrentPeriodStart)
		data.PeriodEnd = biztime.FromUnix(item.CurrentPeriodEnd)
	}
	return data, nil
}
