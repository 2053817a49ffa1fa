package mappers

import (
	"fmt"

	"tutorbill/internal/domain/billing"
	"tutorbill/internal/infrastructure/persistence/models"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*billing.Subscription, error)
	ToModel(entity *billing.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*billing.Subscription, error)
}

type subscriptionMapper struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &subscriptionMapper{}
}

func (m *subscriptionMapper) ToEntity(model *models.SubscriptionModel) (*billing.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status := billing.Status(model.Status)
	if !billing.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status in store: %s", model.Status)
	}

	return billing.ReconstructSubscription(billing.SubscriptionReconstructParams{
		ID:                 model.ID,
		TenantID:           model.TenantID,
		SubscriptionRef:    model.SubscriptionRef,
		CustomerRef:        model.CustomerRef,
		Status:             status,
		TrialStart:         model.TrialStart,
		TrialEnd:           model.TrialEnd,
		CurrentPeriodStart: model.CurrentPeriodStart,
		CurrentPeriodEnd:   model.CurrentPeriodEnd,
		CancelAtPeriodEnd:  model.CancelAtPeriodEnd,
		CanceledAt:         model.CanceledAt,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	})
}

func (m *subscriptionMapper) ToModel(entity *billing.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, fmt.Errorf("cannot map nil subscription")
	}

	return &models.SubscriptionModel{
		ID:                 entity.ID(),
		TenantID:           entity.TenantID(),
		SubscriptionRef:    entity.SubscriptionRef(),
		CustomerRef:        entity.CustomerRef(),
		Status:             entity.Status().String(),
		TrialStart:         entity.TrialStart(),
		TrialEnd:           entity.TrialEnd(),
		CurrentPeriodStart: entity.CurrentPeriodStart(),
		CurrentPeriodEnd:   entity.CurrentPeriodEnd(),
		CancelAtPeriodEnd:  entity.CancelAtPeriodEnd(),
		CanceledAt:         entity.CanceledAt(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}, nil
}

func (m *subscriptionMapper) ToEntities(ms []*models.SubscriptionModel) ([]*billing.Subscription, error) {
	entities := make([]*billing.Subscription, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
