package mappers

import (
	"tutorbill/internal/domain/organisation"
	"tutorbill/internal/infrastructure/persistence/models"
)

type OrganisationMapper interface {
	ToEntity(model *models.OrganisationModel) (*organisation.Organisation, error)
}

type organisationMapper struct{}

func NewOrganisationMapper() OrganisationMapper {
	return &organisationMapper{}
}

func (m *organisationMapper) ToEntity(model *models.OrganisationModel) (*organisation.Organisation, error) {
	if model == nil {
		return nil, nil
	}
	return organisation.ReconstructOrganisation(
		model.ID,
		model.Name,
		model.OwnerUserID,
		model.OwnerEmail,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
