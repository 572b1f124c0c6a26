package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sewnstudio/atelier-backend/pkg/types"
)

// MeasurementProfile is a named set of body measurements owned by a user.
// At most one profile per user carries is_default, enforced at write time.
type MeasurementProfile struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	Name      string               `gorm:"column:name;not null"`
	Values    types.MeasurementSet `gorm:"column:values;type:jsonb;serializer:json;not null"`
	Notes     *string              `gorm:"column:notes"`
	IsDefault bool                 `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
