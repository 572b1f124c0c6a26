package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// CartLine is one configured purchasable unit: item + measurement + fabric +
// material choice + quantity. Item name and unit price are snapshots taken at
// add-to-cart time and never refreshed.
type CartLine struct {
	ID                 uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID             uuid.UUID               `gorm:"column:cart_id;type:uuid;not null;index"`
	Position           int                     `gorm:"column:position;not null"`
	ItemID             uuid.UUID               `gorm:"column:item_id;type:uuid;not null"`
	ItemName           string                  `gorm:"column:item_name;not null"`
	UnitPrice          decimal.Decimal         `gorm:"column:unit_price;type:numeric(12,2);not null"`
	MeasurementRef     string                  `gorm:"column:measurement_ref;not null"`
	MeasurementName    string                  `gorm:"column:measurement_name;not null"`
	FabricType         *string                 `gorm:"column:fabric_type"`
	Quantity           int                     `gorm:"column:quantity;not null"`
	ImageRef           *string                 `gorm:"column:image_ref"`
	MaterialProvision  enums.MaterialProvision `gorm:"column:material_provision;type:material_provision;not null"`
	MaterialFee        decimal.Decimal         `gorm:"column:material_fee;type:numeric(12,2);not null"`
	CreatedAt          time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
