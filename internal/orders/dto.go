package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
	"github.com/sewnstudio/atelier-backend/pkg/pagination"
)

// OrderLineDTO is the frozen transport shape of one order line.
type OrderLineDTO struct {
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

// OrderDTO is the transport shape of a placed order.
type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	ContactName   string              `json:"contact_name"`
	ContactPhone  string              `json:"contact_phone"`
	Total         decimal.Decimal     `json:"total"`
	PaymentLink   *string             `json:"payment_link,omitempty"`
	Lines         []OrderLineDTO      `json:"lines"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ListOrdersInput paginates a user's order history.
type ListOrdersInput struct {
	Pagination pagination.Params
}

// ListOrdersOutput returns one page of orders plus the next cursor.
type ListOrdersOutput struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// UpdateStatusInput is the admin payload for advancing an order.
type UpdateStatusInput struct {
	Status enums.OrderStatus `json:"status" validate:"required"`
}

// FromModel converts a persisted order into its transport shape.
func FromModel(m *models.Order) OrderDTO {
	out := OrderDTO{
		ID:            m.ID,
		Status:        m.Status,
		PaymentMethod: m.PaymentMethod,
		ContactName:   m.ContactName,
		ContactPhone:  m.ContactPhone,
		Total:         m.Total,
		PaymentLink:   m.PaymentLink,
		Lines:         make([]OrderLineDTO, 0, len(m.Lines)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for i := range m.Lines {
		line := &m.Lines[i]
		out.Lines = append(out.Lines, OrderLineDTO{
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
			LineTotal:         line.LineTotal,
		})
	}
	return out
}
