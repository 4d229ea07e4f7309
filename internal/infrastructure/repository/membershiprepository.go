package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/infrastructure/persistence/mappers"
	"nexus/internal/infrastructure/persistence/models"
	"nexus/internal/shared/constants"
	"nexus/internal/shared/db"
	"nexus/internal/shared/logger"
)

type MembershipRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MembershipMapper
	logger logger.Interface
}

func NewMembershipRepository(db *gorm.DB, logger logger.Interface) membership.MembershipRepository {
	return &MembershipRepositoryImpl{
		db:     db,
		mapper: mappers.NewMembershipMapper(),
		logger: logger,
	}
}

func (r *MembershipRepositoryImpl) Create(ctx context.Context, entity *membership.Membership) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map membership entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create membership", "user_id", model.UserID, "error", err)
		return fmt.Errorf("failed to create membership: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set membership ID: %w", err)
	}

	r.logger.Infow("membership created", "id", model.ID, "user_id", model.UserID, "plan_id", model.PlanID)
	return nil
}

func (r *MembershipRepositoryImpl) GetByID(ctx context.Context, id uint) (*membership.Membership, error) {
	var model models.MembershipModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get membership by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByUserID returns the user's most recent non-deleted membership.
func (r *MembershipRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*membership.Membership, error) {
	var model models.MembershipModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status <> ?", userID, vo.StatusDeleted.String()).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get membership by user ID", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *MembershipRepositoryImpl) GetPendingByUserID(ctx context.Context, userID string) (*membership.Membership, error) {
	var model models.MembershipModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, vo.StatusPending.String()).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get pending membership", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get pending membership: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *MembershipRepositoryImpl) Update(ctx context.Context, entity *membership.Membership) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map membership entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.MembershipModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update membership", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update membership: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("membership %d not found", model.ID)
	}

	return nil
}

func (r *MembershipRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.MembershipModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete membership", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete membership: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("membership %d not found", id)
	}

	r.logger.Infow("membership deleted", "id", id)
	return nil
}

// FindExpired returns active memberships whose end date is on or before
// asOf, the candidate set of the daily cut. The comparison is inclusive:
// a membership whose period closes today is already due.
func (r *MembershipRepositoryImpl) FindExpired(ctx context.Context, asOf time.Time) ([]*membership.Membership, error) {
	var ms []*models.MembershipModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND end_date <= ?", vo.StatusActive.String(), asOf).
		Order("end_date ASC").
		Find(&ms).Error
	if err != nil {
		r.logger.Errorw("failed to find expired memberships", "as_of", asOf, "error", err)
		return nil, fmt.Errorf("failed to find expired memberships: %w", err)
	}

	return r.mapper.ToEntities(ms)
}

func (r *MembershipRepositoryImpl) List(ctx context.Context, filter membership.MembershipFilter) ([]*membership.Membership, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.MembershipModel{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PlanID != nil {
		query = query.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count memberships: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	var ms []*models.MembershipModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ms).Error
	if err != nil {
		r.logger.Errorw("failed to list memberships", "error", err)
		return nil, 0, fmt.Errorf("failed to list memberships: %w", err)
	}

	entities, err := r.mapper.ToEntities(ms)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
