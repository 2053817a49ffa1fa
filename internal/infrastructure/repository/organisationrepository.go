package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tutorbill/internal/domain/organisation"
	"tutorbill/internal/infrastructure/persistence/mappers"
	"tutorbill/internal/infrastructure/persistence/models"
	"tutorbill/internal/shared/db"
	"tutorbill/internal/shared/logger"
)

type OrganisationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.OrganisationMapper
	logger logger.Interface
}

func NewOrganisationRepository(database *gorm.DB, logger logger.Interface) organisation.Repository {
	return &OrganisationRepositoryImpl{
		db:     database,
		mapper: mappers.NewOrganisationMapper(),
		logger: logger,
	}
}

func (r *OrganisationRepositoryImpl) GetByID(ctx context.Context, id string) (*organisation.Organisation, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.OrganisationModel
	if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get organisation", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get organisation: %w", err)
	}

	return r.mapper.ToEntity(&model)
}
