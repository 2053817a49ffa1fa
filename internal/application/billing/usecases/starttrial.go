package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"tutorbill/internal/application/billing/gateway"
	"tutorbill/internal/domain/billing"
	"tutorbill/internal/domain/organisation"
	"tutorbill/internal/shared/biztime"
	apperrors "tutorbill/internal/shared/errors"
	"tutorbill/internal/shared/logger"
)

const (
	defaultProviderRetries = 3
	providerRetryBase      = 500 * time.Millisecond
)

// StartTrialCommand is a tenant-initiated request to open a trial checkout.
type StartTrialCommand struct {
	TenantID    string
	RequesterID string
	// CustomerEmail overrides the owner email prefilled on the checkout page.
	CustomerEmail string
}

// StartTrialResult carries the provider-hosted checkout target.
type StartTrialResult struct {
	RedirectURL string
}

// StartTrialUseCase provisions a trial: ownership check, no-live-subscription
// check, optimistic pending row, provider checkout. The unique key on
// tenant_id is the real race-breaker; the status check only buys a good
// error message on the fast path.
type StartTrialUseCase struct {
	orgs       organisation.Repository
	subs       billing.SubscriptionRepository
	provider   gateway.Client
	maxRetries uint64
	logger     logger.Interface
}

func NewStartTrialUseCase(
	orgs organisation.Repository,
	subs billing.SubscriptionRepository,
	provider gateway.Client,
	maxRetries int,
	logger logger.Interface,
) *StartTrialUseCase {
	if maxRetries <= 0 {
		maxRetries = defaultProviderRetries
	}
	return &StartTrialUseCase{
		orgs:       orgs,
		subs:       subs,
		provider:   provider,
		maxRetries: uint64(maxRetries),
		logger:     logger,
	}
}

func (uc *StartTrialUseCase) Execute(ctx context.Context, cmd StartTrialCommand) (*StartTrialResult, error) {
	if cmd.TenantID == "" {
		return nil, apperrors.NewValidationError("tenant ID is required")
	}

	org, err := uc.orgs.GetByID(ctx, cmd.TenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve organisation %s: %w", cmd.TenantID, err)
	}
	if org == nil {
		return nil, apperrors.NewNotFoundError("organisation not found")
	}
	if !org.IsOwnedBy(cmd.RequesterID) {
		uc.logger.Warnw("trial start denied, requester is not the owner",
			"tenant_id", cmd.TenantID, "requester_id", cmd.RequesterID)
		return nil, apperrors.NewForbiddenError("only the organisation owner can start a trial")
	}

	existing, err := uc.subs.GetByTenantID(ctx, cmd.TenantID)
	if err != nil {
		return nil, fmt.Errorf("load subscription for tenant %s: %w", cmd.TenantID, err)
	}
	if billing.IsPremium(existing) {
		return nil, apperrors.NewConflictError("organisation already has a live subscription")
	}

	// Write the pending intent before talking to the provider so the unique
	// key settles concurrent requests here rather than after two checkouts
	// complete. A non-live row from an earlier attempt is reused as is; the
	// next provider snapshot overwrites it.
	if existing == nil {
		pending, err := billing.NewPendingSubscription(cmd.TenantID, biztime.NowUTC())
		if err != nil {
			return nil, apperrors.NewValidationError("invalid trial request", err.Error())
		}
		if err := uc.subs.Create(ctx, pending); err != nil {
			if errors.Is(err, billing.ErrSubscriptionExists) {
				return nil, apperrors.NewConflictError("organisation already has a live subscription")
			}
			return nil, fmt.Errorf("create pending subscription: %w", err)
		}
	}

	email := cmd.CustomerEmail
	if email == "" {
		email = org.OwnerEmail()
	}

	session, err := uc.createCheckout(ctx, gateway.CheckoutParams{
		TenantID:      cmd.TenantID,
		CustomerEmail: email,
		// Per-tenant key: the provider collapses duplicate checkout creations.
		IdempotencyKey: "trial-checkout-" + cmd.TenantID,
	})
	if err != nil {
		uc.logger.Errorw("provider checkout creation failed after retries",
			"tenant_id", cmd.TenantID, "error", err)
		return nil, apperrors.NewUnavailableError("payment provider unavailable, try again later")
	}

	uc.logger.Infow("trial checkout created", "tenant_id", cmd.TenantID)
	return &StartTrialResult{RedirectURL: session.RedirectURL}, nil
}

// createCheckout calls the provider with bounded exponential backoff.
func (uc *StartTrialUseCase) createCheckout(ctx context.Context, params gateway.CheckoutParams) (*gateway.CheckoutSession, error) {
	var session *gateway.CheckoutSession
	backoff := retry.WithMaxRetries(uc.maxRetries, retry.NewExponential(providerRetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		s, err := uc.provider.CreateTrialCheckout(ctx, params)
		if err != nil {
			return retry.RetryableError(err)
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}
