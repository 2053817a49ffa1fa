package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorbill/internal/domain/billing"
	"tutorbill/internal/infrastructure/persistence/mappers"
	"tutorbill/internal/infrastructure/persistence/models"
	"tutorbill/internal/shared/db"
	apperrors "tutorbill/internal/shared/errors"
	"tutorbill/internal/shared/logger"
)

// SubscriptionRepositoryImpl persists the one-row-per-tenant subscription
// store. Every method joins the ambient transaction when one is carried in
// the context, so the ingestion use case commits ledger and state together.
type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(database *gorm.DB, logger logger.Interface) billing.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     database,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *billing.Subscription) error {
	model, err := r.mapper.ToModel(sub)
	if err != nil {
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			// The unique key on tenant_id is the provisioning race-breaker.
			return billing.ErrSubscriptionExists
		}
		r.logger.Errorw("failed to create subscription", "tenant_id", sub.TenantID(), "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created", "id", model.ID, "tenant_id", model.TenantID, "status", model.Status)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByTenantID(ctx context.Context, tenantID string) (*billing.Subscription, error) {
	return r.getByTenantID(ctx, tenantID, false)
}

func (r *SubscriptionRepositoryImpl) GetByTenantIDForUpdate(ctx context.Context, tenantID string) (*billing.Subscription, error) {
	return r.getByTenantID(ctx, tenantID, true)
}

func (r *SubscriptionRepositoryImpl) getByTenantID(ctx context.Context, tenantID string, forUpdate bool) (*billing.Subscription, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	if forUpdate {
		// Row lock serializes concurrent events for one tenant; events for
		// other tenants are untouched.
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.SubscriptionModel
	if err := tx.Where("tenant_id = ?", tenantID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}
	return entity, nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *billing.Subscription) error {
	model, err := r.mapper.ToModel(sub)
	if err != nil {
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Save(model).Error; err != nil {
		r.logger.Errorw("failed to update subscription", "tenant_id", sub.TenantID(), "error", err)
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) ListByStatus(ctx context.Context, status billing.Status) ([]*billing.Subscription, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []*models.SubscriptionModel
	if err := tx.Where("status = ?", status.String()).Order("updated_at ASC").Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list subscriptions by status", "status", status.String(), "error", err)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to map subscriptions: %w", err)
	}
	return entities, nil
}
