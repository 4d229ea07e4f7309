package mappers

import (
	"fmt"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/infrastructure/persistence/models"
)

type MembershipHistoryMapper interface {
	ToEntity(model *models.MembershipHistoryModel) (*membership.History, error)
	ToModel(entity *membership.History) (*models.MembershipHistoryModel, error)
	ToEntities(models []*models.MembershipHistoryModel) ([]*membership.History, error)
}

type membershipHistoryMapper struct{}

func NewMembershipHistoryMapper() MembershipHistoryMapper {
	return &membershipHistoryMapper{}
}

func (m *membershipHistoryMapper) ToEntity(model *models.MembershipHistoryModel) (*membership.History, error) {
	if model == nil {
		return nil, nil
	}

	action := vo.MembershipAction(model.Action)
	if !vo.ValidActions[action] {
		return nil, fmt.Errorf("invalid membership action: %s", model.Action)
	}

	metadata, err := unmarshalMetadata(model.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal history metadata: %w", err)
	}

	entity, err := membership.ReconstructHistory(
		model.ID,
		model.MembershipID,
		action,
		model.Notes,
		metadata,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct history entity: %w", err)
	}
	return entity, nil
}

func (m *membershipHistoryMapper) ToModel(entity *membership.History) (*models.MembershipHistoryModel, error) {
	if entity == nil {
		return nil, nil
	}

	metadata, err := marshalMetadata(entity.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history metadata: %w", err)
	}

	return &models.MembershipHistoryModel{
		ID:           entity.ID(),
		MembershipID: entity.MembershipID(),
		Action:       entity.Action().String(),
		Notes:        entity.Notes(),
		Metadata:     metadata,
		CreatedAt:    entity.CreatedAt(),
	}, nil
}

func (m *membershipHistoryMapper) ToEntities(ms []*models.MembershipHistoryModel) ([]*membership.History, error) {
	entities := make([]*membership.History, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
