package measurements

import (
	"time"

	"github.com/google/uuid"

	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/types"
)

// DefaultProfileRef is the sentinel clients may pass instead of a profile ID.
const DefaultProfileRef = "default"

// ProfileDTO is the transport shape of a measurement profile.
type ProfileDTO struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Values    types.MeasurementSet `json:"values"`
	Notes     *string              `json:"notes,omitempty"`
	IsDefault bool                 `json:"is_default"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// UpsertProfileInput is the payload for creating a profile.
type UpsertProfileInput struct {
	Name      string               `json:"name" validate:"required"`
	Values    types.MeasurementSet `json:"values" validate:"required"`
	Notes     *string              `json:"notes,omitempty"`
	IsDefault bool                 `json:"is_default"`
}

// UpdateProfileInput is the partial payload for updating a profile. Nil
// fields are left untouched on the stored row.
type UpdateProfileInput struct {
	Name      *string               `json:"name,omitempty"`
	Values    *types.MeasurementSet `json:"values,omitempty"`
	Notes     *string               `json:"notes,omitempty"`
	IsDefault *bool                 `json:"is_default,omitempty"`
}

func fromModel(m *models.MeasurementProfile) ProfileDTO {
	return ProfileDTO{
		ID:        m.ID,
		Name:      m.Name,
		Values:    m.Values.Clone(),
		Notes:     m.Notes,
		IsDefault: m.IsDefault,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
