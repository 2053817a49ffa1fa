package usecases

import (
	"context"
	"fmt"

	"tutorbill/internal/application/billing/dto"
	"tutorbill/internal/domain/billing"
	"tutorbill/internal/shared/logger"
)

// ListPastDueUseCase is the operational dunning query: every tenant whose
// payment has failed and not yet recovered.
type ListPastDueUseCase struct {
	subs   billing.SubscriptionRepository
	logger logger.Interface
}

func NewListPastDueUseCase(subs billing.SubscriptionRepository, logger logger.Interface) *ListPastDueUseCase {
	return &ListPastDueUseCase{subs: subs, logger: logger}
}

func (uc *ListPastDueUseCase) Execute(ctx context.Context) ([]*dto.SubscriptionDTO, error) {
	subs, err := uc.subs.ListByStatus(ctx, billing.StatusPastDue)
	if err != nil {
		return nil, fmt.Errorf("list past_due subscriptions: %w", err)
	}
	return dto.FromSubscriptions(subs), nil
}
