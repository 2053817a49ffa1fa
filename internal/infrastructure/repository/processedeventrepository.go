package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tutorbill/internal/domain/billing"
	"tutorbill/internal/infrastructure/persistence/mappers"
	"tutorbill/internal/shared/db"
	apperrors "tutorbill/internal/shared/errors"
	"tutorbill/internal/shared/logger"
)

// ProcessedEventRepositoryImpl appends to the event ledger. It never updates
// or deletes; the primary key on event_id does the deduplication.
type ProcessedEventRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ProcessedEventMapper
	logger logger.Interface
}

func NewProcessedEventRepository(database *gorm.DB, logger logger.Interface) billing.ProcessedEventRepository {
	return &ProcessedEventRepositoryImpl{
		db:     database,
		mapper: mappers.NewProcessedEventMapper(),
		logger: logger,
	}
}

func (r *ProcessedEventRepositoryImpl) Record(ctx context.Context, event *billing.ProcessedEvent) error {
	model, err := r.mapper.ToModel(event)
	if err != nil {
		return fmt.Errorf("failed to map processed event: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return billing.ErrEventAlreadyProcessed
		}
		r.logger.Errorw("failed to record event in ledger", "event_id", event.EventID, "error", err)
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}
