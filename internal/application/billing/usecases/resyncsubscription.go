package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"tutorbill/internal/application/billing/dto"
	"tutorbill/internal/application/billing/gateway"
	"tutorbill/internal/domain/billing"
	"tutorbill/internal/shared/biztime"
	apperrors "tutorbill/internal/shared/errors"
	"tutorbill/internal/shared/logger"
)

// ResyncSubscriptionUseCase pulls the provider's authoritative snapshot for
// one tenant and replays it through the transition engine, for when webhook
// delivery is suspected to have been missed. The snapshot is not a delivered
// event, so it bypasses the ledger; overwrite semantics make it safe to run
// any number of times.
type ResyncSubscriptionUseCase struct {
	subs       billing.SubscriptionRepository
	provider   gateway.Client
	tm         TransactionManager
	maxRetries uint64
	logger     logger.Interface
}

func NewResyncSubscriptionUseCase(
	subs billing.SubscriptionRepository,
	provider gateway.Client,
	tm TransactionManager,
	maxRetries int,
	logger logger.Interface,
) *ResyncSubscriptionUseCase {
	if maxRetries <= 0 {
		maxRetries = defaultProviderRetries
	}
	return &ResyncSubscriptionUseCase{
		subs:       subs,
		provider:   provider,
		tm:         tm,
		maxRetries: uint64(maxRetries),
		logger:     logger,
	}
}

func (uc *ResyncSubscriptionUseCase) Execute(ctx context.Context, tenantID string) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subs.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load subscription for tenant %s: %w", tenantID, err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("no subscription for organisation")
	}
	ref := sub.SubscriptionRef()
	if ref == nil || *ref == "" {
		return nil, apperrors.NewValidationError("subscription has no provider reference to re-sync from")
	}

	snapshot, err := uc.fetchSnapshot(ctx, *ref)
	if err != nil {
		uc.logger.Errorw("provider snapshot fetch failed after retries",
			"tenant_id", tenantID, "subscription_ref", *ref, "error", err)
		return nil, apperrors.NewUnavailableError("payment provider unavailable, try again later")
	}

	var updated *billing.Subscription
	err = uc.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		current, err := uc.subs.GetByTenantIDForUpdate(txCtx, tenantID)
		if err != nil {
			return fmt.Errorf("lock subscription for tenant %s: %w", tenantID, err)
		}
		if current == nil {
			return apperrors.NewNotFoundError("no subscription for organisation")
		}

		res, err := billing.Transition(current, billing.ProviderEvent{
			ID:        "resync",
			Type:      billing.EventUpdated,
			TenantRef: tenantID,
			Data:      *snapshot,
		}, biztime.NowUTC())
		if err != nil {
			return err
		}
		updated = res.Subscription
		return uc.subs.Update(txCtx, res.Subscription)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("apply re-synced snapshot for tenant %s: %w", tenantID, err)
	}

	uc.logger.Infow("subscription re-synced from provider",
		"tenant_id", tenantID, "status", updated.Status().String())
	return dto.FromSubscription(updated), nil
}

func (uc *ResyncSubscriptionUseCase) fetchSnapshot(ctx context.Context, ref string) (*billing.EventData, error) {
	var snapshot *billing.EventData
	backoff := retry.WithMaxRetries(uc.maxRetries, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		s, err := uc.provider.FetchSubscription(ctx, ref)
		if err != nil {
			return retry.RetryableError(err)
		}
		snapshot = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
