package mappers

import (
	"encoding/json"
	"fmt"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/infrastructure/persistence/models"
)

type MembershipMapper interface {
	ToEntity(model *models.MembershipModel) (*membership.Membership, error)
	ToModel(entity *membership.Membership) (*models.MembershipModel, error)
	ToEntities(models []*models.MembershipModel) ([]*membership.Membership, error)
}

type membershipMapper struct{}

func NewMembershipMapper() MembershipMapper {
	return &membershipMapper{}
}

func (m *membershipMapper) ToEntity(model *models.MembershipModel) (*membership.Membership, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.MembershipStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid membership status: %s", model.Status)
	}

	metadata, err := unmarshalMetadata(model.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal membership metadata: %w", err)
	}

	entity, err := membership.ReconstructMembership(
		model.ID,
		model.UserID,
		model.UserEmail,
		model.UserName,
		model.PlanID,
		model.FromPlanID,
		status,
		model.StartDate,
		model.EndDate,
		model.PaidAmount,
		model.PaymentReference,
		model.MinimumReconsumptionAmount,
		model.AutoRenewal,
		model.IsPointLot,
		model.UseCard,
		model.WelcomeKitDelivered,
		metadata,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct membership entity: %w", err)
	}
	return entity, nil
}

func (m *membershipMapper) ToModel(entity *membership.Membership) (*models.MembershipModel, error) {
	if entity == nil {
		return nil, nil
	}

	metadata, err := marshalMetadata(entity.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal membership metadata: %w", err)
	}

	return &models.MembershipModel{
		ID:                         entity.ID(),
		UserID:                     entity.UserID(),
		UserEmail:                  entity.UserEmail(),
		UserName:                   entity.UserName(),
		PlanID:                     entity.PlanID(),
		FromPlanID:                 entity.FromPlanID(),
		Status:                     entity.Status().String(),
		StartDate:                  entity.StartDate(),
		EndDate:                    entity.EndDate(),
		PaidAmount:                 entity.PaidAmount(),
		PaymentReference:           entity.PaymentReference(),
		MinimumReconsumptionAmount: entity.MinimumReconsumptionAmount(),
		AutoRenewal:                entity.AutoRenewal(),
		IsPointLot:                 entity.IsPointLot(),
		UseCard:                    entity.UseCard(),
		WelcomeKitDelivered:        entity.WelcomeKitDelivered(),
		Metadata:                   metadata,
		CreatedAt:                  entity.CreatedAt(),
		UpdatedAt:                  entity.UpdatedAt(),
	}, nil
}

func (m *membershipMapper) ToEntities(ms []*models.MembershipModel) ([]*membership.Membership, error) {
	entities := make([]*membership.Membership, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func unmarshalMetadata(raw []byte) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var metadata map[string]interface{}
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

func marshalMetadata(metadata map[string]interface{}) ([]byte, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	return json.Marshal(metadata)
}
