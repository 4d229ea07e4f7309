package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/infrastructure/persistence/mappers"
	"nexus/internal/infrastructure/persistence/models"
	"nexus/internal/shared/db"
	"nexus/internal/shared/logger"
)

type ReconsumptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ReconsumptionMapper
	logger logger.Interface
}

func NewReconsumptionRepository(db *gorm.DB, logger logger.Interface) membership.ReconsumptionRepository {
	return &ReconsumptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewReconsumptionMapper(),
		logger: logger,
	}
}

func (r *ReconsumptionRepositoryImpl) Create(ctx context.Context, entity *membership.Reconsumption) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map reconsumption entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create reconsumption", "membership_id", model.MembershipID, "error", err)
		return fmt.Errorf("failed to create reconsumption: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set reconsumption ID: %w", err)
	}

	r.logger.Infow("reconsumption created", "id", model.ID, "membership_id", model.MembershipID, "status", model.Status)
	return nil
}

func (r *ReconsumptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*membership.Reconsumption, error) {
	var model models.ReconsumptionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get reconsumption by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get reconsumption: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *ReconsumptionRepositoryImpl) GetPendingByMembershipID(ctx context.Context, membershipID uint) (*membership.Reconsumption, error) {
	var model models.ReconsumptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("membership_id = ? AND status = ?", membershipID, vo.ReconsumptionStatusPending.String()).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get pending reconsumption", "membership_id", membershipID, "error", err)
		return nil, fmt.Errorf("failed to get pending reconsumption: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *ReconsumptionRepositoryImpl) ListByMembershipID(ctx context.Context, membershipID uint) ([]*membership.Reconsumption, error) {
	var ms []*models.ReconsumptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("membership_id = ?", membershipID).
		Order("period_date DESC").
		Find(&ms).Error
	if err != nil {
		r.logger.Errorw("failed to list reconsumptions", "membership_id", membershipID, "error", err)
		return nil, fmt.Errorf("failed to list reconsumptions: %w", err)
	}

	return r.mapper.ToEntities(ms)
}

func (r *ReconsumptionRepositoryImpl) Update(ctx context.Context, entity *membership.Reconsumption) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map reconsumption entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ReconsumptionModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update reconsumption", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update reconsumption: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reconsumption %d not found", model.ID)
	}

	return nil
}

func (r *ReconsumptionRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.ReconsumptionModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete reconsumption", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete reconsumption: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reconsumption %d not found", id)
	}

	r.logger.Infow("reconsumption deleted", "id", id)
	return nil
}
