package mappers

import (
	"fmt"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/infrastructure/persistence/models"
)

type ReconsumptionMapper interface {
	ToEntity(model *models.ReconsumptionModel) (*membership.Reconsumption, error)
	ToModel(entity *membership.Reconsumption) (*models.ReconsumptionModel, error)
	ToEntities(models []*models.ReconsumptionModel) ([]*membership.Reconsumption, error)
}

type reconsumptionMapper struct{}

func NewReconsumptionMapper() ReconsumptionMapper {
	return &reconsumptionMapper{}
}

func (m *reconsumptionMapper) ToEntity(model *models.ReconsumptionModel) (*membership.Reconsumption, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.ReconsumptionStatus(model.Status)
	if !vo.ValidReconsumptionStatuses[status] {
		return nil, fmt.Errorf("invalid reconsumption status: %s", model.Status)
	}

	details, err := unmarshalMetadata(model.PaymentDetails)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment details: %w", err)
	}

	entity, err := membership.ReconstructReconsumption(
		model.ID,
		model.MembershipID,
		model.Amount,
		status,
		model.PeriodDate,
		model.PaymentReference,
		details,
		model.Notes,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct reconsumption entity: %w", err)
	}
	return entity, nil
}

func (m *reconsumptionMapper) ToModel(entity *membership.Reconsumption) (*models.ReconsumptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	details, err := marshalMetadata(entity.PaymentDetails())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment details: %w", err)
	}

	return &models.ReconsumptionModel{
		ID:               entity.ID(),
		MembershipID:     entity.MembershipID(),
		Amount:           entity.Amount(),
		Status:           entity.Status().String(),
		PeriodDate:       entity.PeriodDate(),
		PaymentReference: entity.PaymentReference(),
		PaymentDetails:   details,
		Notes:            entity.Notes(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}

func (m *reconsumptionMapper) ToEntities(ms []*models.ReconsumptionModel) ([]*membership.Reconsumption, error) {
	entities := make([]*membership.Reconsumption, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
