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
	// The provider expects an acknowledgment within seconds; processing past
	// this deadline rolls back and relies on the provider's retry.
	defaultIngestTimeout = 10 * time.Second

	commitRetries      = 2
	commitRetryBackoff = 50 * time.Millisecond
)

// IngestProviderEventCommand carries one raw inbound envelope.
type IngestProviderEventCommand struct {
	Payload   []byte
	Signature string
}

// IngestProviderEventResult reports how the event was handled.
type IngestProviderEventResult struct {
	EventID string
	// Duplicate is true when the ledger already held the event; the caller
	// still answers success.
	Duplicate bool
	// Applied is true when the transition engine changed stored state.
	Applied bool
}

// IngestProviderEventUseCase consumes provider events exactly-once-in-effect:
// verify the envelope, record the event in the ledger, run the transition
// engine, and persist both in a single transaction.
type IngestProviderEventUseCase struct {
	verifier gateway.EnvelopeVerifier
	subs     billing.SubscriptionRepository
	events   billing.ProcessedEventRepository
	orgs     organisation.Repository
	tm       TransactionManager
	timeout  time.Duration
	logger   logger.Interface
}

func NewIngestProviderEventUseCase(
	verifier gateway.EnvelopeVerifier,
	subs billing.SubscriptionRepository,
	events billing.ProcessedEventRepository,
	orgs organisation.Repository,
	tm TransactionManager,
	timeout time.Duration,
	logger logger.Interface,
) *IngestProviderEventUseCase {
	if timeout <= 0 {
		timeout = defaultIngestTimeout
	}
	return &IngestProviderEventUseCase{
		verifier: verifier,
		subs:     subs,
		events:   events,
		orgs:     orgs,
		tm:       tm,
		timeout:  timeout,
		logger:   logger,
	}
}

func (uc *IngestProviderEventUseCase) Execute(ctx context.Context, cmd IngestProviderEventCommand) (*IngestProviderEventResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	// Authenticity first: a bad signature mutates nothing, not even the ledger.
	if err := uc.verifier.Verify(cmd.Payload, cmd.Signature); err != nil {
		uc.logger.Warnw("rejected event with invalid signature", "error", err)
		return nil, apperrors.NewBadRequestError("event signature verification failed")
	}

	ev, err := parseEnvelope(cmd.Payload)
	if err != nil {
		uc.logger.Warnw("rejected undecodable event envelope", "error", err)
		return nil, apperrors.NewValidationError("malformed event envelope", err.Error())
	}

	if !ev.Type.Known() {
		// Forward compatible: recorded and ignored, never fatal.
		uc.logger.Infow("accepting unknown event type as no-op", "event_id", ev.ID, "event_type", string(ev.Type))
	}

	if ev.TenantRef == "" {
		// Surfaced for manual reconciliation, never silently dropped.
		uc.logger.Errorw("event has no tenant reference, needs manual reconciliation", "event_id", ev.ID, "event_type", string(ev.Type))
		return nil, apperrors.NewValidationError("malformed event", "missing tenant reference")
	}

	result := &IngestProviderEventResult{EventID: ev.ID}

	// The ledger insert and the state write commit together or not at all.
	// Transient commit failures (deadlock, lock wait timeout) are retried a
	// small fixed number of times before surfacing as a retryable failure.
	backoff := retry.WithMaxRetries(commitRetries, retry.NewConstant(commitRetryBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		txErr := uc.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
			return uc.processInTx(txCtx, ev, cmd.Payload, result)
		})
		if apperrors.IsRetryableDBError(txErr) {
			uc.logger.Warnw("transient conflict while applying event, retrying", "event_id", ev.ID, "error", txErr)
			return retry.RetryableError(txErr)
		}
		return txErr
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to apply event", "event_id", ev.ID, "error", err)
		return nil, apperrors.NewUnavailableError("event processing failed, safe to retry")
	}

	if result.Duplicate {
		uc.logger.Infow("event already processed, acknowledging replay", "event_id", ev.ID)
	} else {
		uc.logger.Infow("event processed",
			"event_id", ev.ID,
			"event_type", string(ev.Type),
			"tenant_id", ev.TenantRef,
			"applied", result.Applied,
		)
	}
	return result, nil
}

// processInTx runs inside one transaction: ledger insert, tenant resolution,
// row lock, transition, persist. Any error rolls back everything so the
// event counts as unprocessed and the provider's retry drives convergence.
func (uc *IngestProviderEventUseCase) processInTx(ctx context.Context, ev *billing.ProviderEvent, raw []byte, result *IngestProviderEventResult) error {
	now := biztime.NowUTC()

	record, err := billing.NewProcessedEvent(ev.ID, string(ev.Type), ev.TenantRef, raw, now)
	if err != nil {
		return apperrors.NewValidationError("malformed event", err.Error())
	}
	if err := uc.events.Record(ctx, record); err != nil {
		if errors.Is(err, billing.ErrEventAlreadyProcessed) {
			// Idempotent replay: commit nothing further, report success.
			result.Duplicate = true
			return nil
		}
		return fmt.Errorf("record event in ledger: %w", err)
	}

	org, err := uc.orgs.GetByID(ctx, ev.TenantRef)
	if err != nil {
		return fmt.Errorf("resolve tenant %s: %w", ev.TenantRef, err)
	}
	if org == nil {
		uc.logger.Errorw("event references unknown tenant, needs manual reconciliation",
			"event_id", ev.ID, "tenant_ref", ev.TenantRef)
		return apperrors.NewValidationError("malformed event", "unknown tenant reference")
	}

	current, err := uc.subs.GetByTenantIDForUpdate(ctx, ev.TenantRef)
	if err != nil {
		return fmt.Errorf("load subscription for tenant %s: %w", ev.TenantRef, err)
	}

	res, err := billing.Transition(current, *ev, now)
	if err != nil {
		return apperrors.NewValidationError("malformed event", err.Error())
	}
	result.Applied = res.Applied
	if !res.Applied || res.Subscription == nil {
		return nil
	}

	if current == nil {
		return uc.subs.Create(ctx, res.Subscription)
	}
	return uc.subs.Update(ctx, res.Subscription)
}
