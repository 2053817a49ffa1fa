package usecases

import (
	"context"
	"fmt"

	"tutorbill/internal/application/billing/dto"
	"tutorbill/internal/domain/billing"
	"tutorbill/internal/shared/logger"
)

// GetSubscriptionUseCase is the internal subscription read. Absence is not an
// error at this layer; callers decide whether nil means 404 or "not premium".
type GetSubscriptionUseCase struct {
	subs   billing.SubscriptionRepository
	logger logger.Interface
}

func NewGetSubscriptionUseCase(subs billing.SubscriptionRepository, logger logger.Interface) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{subs: subs, logger: logger}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, tenantID string) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subs.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load subscription for tenant %s: %w", tenantID, err)
	}
	return dto.FromSubscription(sub), nil
}

// IsPremium answers the access-gate question for a tenant from stored state
// alone. It exists so feature boundaries share one code path to the gate.
func (uc *GetSubscriptionUseCase) IsPremium(ctx context.Context, tenantID string) (bool, error) {
	sub, err := uc.subs.GetByTenantID(ctx, tenantID)
	if err != nil {
		return false, fmt.Errorf("load subscription for tenant %s: %w", tenantID, err)
	}
	return billing.IsPremium(sub), nil
}
