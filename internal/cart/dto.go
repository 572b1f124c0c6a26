package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// LineDTO is the transport shape of one cart line.
type LineDTO struct {
	Position          int                     `json:"position"`
	ItemID            uuid.UUID               `json:"item_id"`
	ItemName          string                  `json:"item_name"`
	UnitPrice         decimal.Decimal         `json:"unit_price"`
	MeasurementRef    string                  `json:"measurement_ref"`
	MeasurementName   string                  `json:"measurement_name"`
	FabricType        *string                 `json:"fabric_type,omitempty"`
	Quantity          int                     `json:"quantity"`
	ImageRef          *string                 `json:"image_ref,omitempty"`
	MaterialProvision enums.MaterialProvision `json:"material_provision"`
	MaterialFee       decimal.Decimal         `json:"material_fee"`
	LineTotal         decimal.Decimal         `json:"line_total"`
}

// CartDTO is the transport shape of the whole cart with recomputed totals.
type CartDTO struct {
	ID    uuid.UUID       `json:"id"`
	Lines []LineDTO       `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// AddItemInput is the payload for composing a new cart line.
type AddItemInput struct {
	ItemID            uuid.UUID `json:"item_id" validate:"required"`
	MeasurementRef    string    `json:"measurement_ref" validate:"required"`
	FabricType        *string   `json:"fabric_type,omitempty"`
	MaterialByShopper bool      `json:"material_by_shopper"`
	Quantity          int       `json:"quantity"`
}

// SetQuantityInput updates one line's quantity by position.
type SetQuantityInput struct {
	Index    int `json:"index"`
	Quantity int `json:"quantity"`
}

func cartDTO(record *models.CartRecord, agg *Aggregate) *CartDTO {
	lines := agg.Lines()
	out := &CartDTO{
		ID:    record.ID,
		Lines: make([]LineDTO, 0, len(lines)),
		Total: agg.Total(),
		Count: agg.Count(),
	}
	for i := range lines {
		out.Lines = append(out.Lines, lineDTO(&lines[i]))
	}
	return out
}

func lineDTO(line *models.CartLine) LineDTO {
	return LineDTO{
		Position:          line.Position,
		ItemID:            line.ItemID,
		ItemName:          line.ItemName,
		UnitPrice:         line.UnitPrice,
		MeasurementRef:    line.MeasurementRef,
		MeasurementName:   line.MeasurementName,
		FabricType:        line.FabricType,
		Quantity:          line.Quantity,
		ImageRef:          line.ImageRef,
		MaterialProvision: line.MaterialProvision,
		MaterialFee:       line.MaterialFee,
		LineTotal:         lineTotal(line),
	}
}
