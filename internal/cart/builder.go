package cart

import (
	"github.com/sewnstudio/atelier-backend/internal/pricing"
	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// LineSpec gathers the resolved inputs needed to compose one cart line.
type LineSpec struct {
	Item              *models.Item
	MeasurementRef    string
	MeasurementName   string
	FabricType        *string
	MaterialProvision enums.MaterialProvision
	Quantity          int
}

// BuildLine composes a cart line from a catalog item and the shopper's
// configuration. Item name, unit price, and image are snapshots taken now
// and never refreshed; the material fee is locked with them.
func BuildLine(spec LineSpec) models.CartLine {
	quantity := spec.Quantity
	if quantity < 1 {
		quantity = 1
	}

	var imageRef *string
	if len(spec.Item.Images) > 0 {
		img := spec.Item.Images[0]
		imageRef = &img
	}

	return models.CartLine{
		ItemID:            spec.Item.ID,
		ItemName:          spec.Item.Name,
		UnitPrice:         spec.Item.BasePrice,
		MeasurementRef:    spec.MeasurementRef,
		MeasurementName:   spec.MeasurementName,
		FabricType:        spec.FabricType,
		Quantity:          quantity,
		ImageRef:          imageRef,
		MaterialProvision: spec.MaterialProvision,
		MaterialFee:       pricing.MaterialFee(spec.Item.BasePrice, spec.MaterialProvision),
	}
}
