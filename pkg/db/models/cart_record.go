package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// CartRecord is the per-user cart aggregate. Lines keep insertion order via
// their position column.
type CartRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Status    enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`
	Lines     []CartLine       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
