package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"tutorbill/internal/domain/billing"
	"tutorbill/internal/infrastructure/persistence/models"
)

type ProcessedEventMapper interface {
	ToModel(entity *billing.ProcessedEvent) (*models.ProcessedEventModel, error)
}

type processedEventMapper struct{}

func NewProcessedEventMapper() ProcessedEventMapper {
	return &processedEventMapper{}
}

func (m *processedEventMapper) ToModel(entity *billing.ProcessedEvent) (*models.ProcessedEventModel, error) {
	if entity == nil {
		return nil, fmt.Errorf("cannot map nil processed event")
	}
	return &models.ProcessedEventModel{
		EventID:     entity.EventID,
		EventType:   entity.EventType,
		TenantID:    entity.TenantID,
		Payload:     datatypes.JSON(entity.Payload),
		ProcessedAt: entity.ProcessedAt,
	}, nil
}
