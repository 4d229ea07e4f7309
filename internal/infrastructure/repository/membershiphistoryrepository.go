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

type MembershipHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MembershipHistoryMapper
	logger logger.Interface
}

func NewMembershipHistoryRepository(db *gorm.DB, logger logger.Interface) membership.HistoryRepository {
	return &MembershipHistoryRepositoryImpl{
		db:     db,
		mapper: mappers.NewMembershipHistoryMapper(),
		logger: logger,
	}
}

func (r *MembershipHistoryRepositoryImpl) Create(ctx context.Context, entity *membership.History) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map history entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create history entry", "membership_id", model.MembershipID, "action", model.Action, "error", err)
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set history ID: %w", err)
	}
	return nil
}

func (r *MembershipHistoryRepositoryImpl) ListByMembershipID(ctx context.Context, membershipID uint) ([]*membership.History, error) {
	var ms []*models.MembershipHistoryModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("membership_id = ?", membershipID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		r.logger.Errorw("failed to list history", "membership_id", membershipID, "error", err)
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return r.mapper.ToEntities(ms)
}

// DeleteByMembershipID removes every audit row of a membership. Used only as
// saga compensation right before the membership itself is deleted.
func (r *MembershipHistoryRepositoryImpl) DeleteByMembershipID(ctx context.Context, membershipID uint) error {
	err := db.GetTxFromContext(ctx, r.db).
		Where("membership_id = ?", membershipID).
		Delete(&models.MembershipHistoryModel{}).Error
	if err != nil {
		r.logger.Errorw("failed to delete history", "membership_id", membershipID, "error", err)
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}
