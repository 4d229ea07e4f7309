package mappers

import (
	"fmt"

	"nexus/internal/domain/membership"
	"nexus/internal/infrastructure/persistence/models"
)

type MembershipPlanMapper interface {
	ToEntity(model *models.MembershipPlanModel) (*membership.Plan, error)
	ToModel(entity *membership.Plan) *models.MembershipPlanModel
	ToEntities(models []*models.MembershipPlanModel) ([]*membership.Plan, error)
}

type membershipPlanMapper struct{}

func NewMembershipPlanMapper() MembershipPlanMapper {
	return &membershipPlanMapper{}
}

func (m *membershipPlanMapper) ToEntity(model *models.MembershipPlanModel) (*membership.Plan, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := membership.ReconstructPlan(
		model.ID,
		model.Name,
		model.Price,
		model.CheckAmount,
		model.BinaryPoints,
		model.CommissionPercentage,
		model.DirectCommissionAmount,
		model.DisplayOrder,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}
	return entity, nil
}

func (m *membershipPlanMapper) ToModel(entity *membership.Plan) *models.MembershipPlanModel {
	if entity == nil {
		return nil
	}
	return &models.MembershipPlanModel{
		ID:                     entity.ID(),
		Name:                   entity.Name(),
		Price:                  entity.Price(),
		CheckAmount:            entity.CheckAmount(),
		BinaryPoints:           entity.BinaryPoints(),
		CommissionPercentage:   entity.CommissionPercentage(),
		DirectCommissionAmount: entity.DirectCommissionAmount(),
		DisplayOrder:           entity.DisplayOrder(),
		IsActive:               entity.IsActive(),
		CreatedAt:              entity.CreatedAt(),
		UpdatedAt:              entity.UpdatedAt(),
	}
}

func (m *membershipPlanMapper) ToEntities(ms []*models.MembershipPlanModel) ([]*membership.Plan, error) {
	entities := make([]*membership.Plan, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
