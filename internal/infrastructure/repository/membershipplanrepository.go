package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nexus/internal/domain/membership"
	"nexus/internal/infrastructure/persistence/mappers"
	"nexus/internal/infrastructure/persistence/models"
	"nexus/internal/shared/db"
	"nexus/internal/shared/logger"
)

type MembershipPlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MembershipPlanMapper
	logger logger.Interface
}

func NewMembershipPlanRepository(db *gorm.DB, logger logger.Interface) membership.PlanRepository {
	return &MembershipPlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewMembershipPlanMapper(),
		logger: logger,
	}
}

func (r *MembershipPlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*membership.Plan, error) {
	var model models.MembershipPlanModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *MembershipPlanRepositoryImpl) GetAllActive(ctx context.Context) ([]*membership.Plan, error) {
	var ms []*models.MembershipPlanModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("is_active = ?", true).
		Order("display_order ASC, price ASC").
		Find(&ms).Error
	if err != nil {
		r.logger.Errorw("failed to list active plans", "error", err)
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	return r.mapper.ToEntities(ms)
}
