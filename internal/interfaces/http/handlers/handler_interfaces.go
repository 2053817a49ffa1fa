package handlers

import (
	"context"

	"tutorbill/internal/application/billing/dto"
	"tutorbill/internal/application/billing/usecases"
)

// Use case interfaces consumed by the billing handlers. Handlers depend on
// these rather than the concrete use cases so tests can substitute mocks.

type ingestProviderEventUseCase interface {
	Execute(ctx context.Context, cmd usecases.IngestProviderEventCommand) (*usecases.IngestProviderEventResult, error)
}

type startTrialUseCase interface {
	Execute(ctx context.Context, cmd usecases.StartTrialCommand) (*usecases.StartTrialResult, error)
}

type getSubscriptionUseCase interface {
	Execute(ctx context.Context, tenantID string) (*dto.SubscriptionDTO, error)
}

type listPastDueUseCase interface {
	Execute(ctx context.Context) ([]*dto.SubscriptionDTO, error)
}

type resyncSubscriptionUseCase interface {
	Execute(ctx context.Context, tenantID string) (*dto.SubscriptionDTO, error)
}
