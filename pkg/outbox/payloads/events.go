package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// OrderPlacedEvent signals that a checkout converted a cart into an order.
type OrderPlacedEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	UserID        uuid.UUID           `json:"user_id"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Total         decimal.Decimal     `json:"total"`
	LineCount     int                 `json:"line_count"`
	PlacedAt      time.Time           `json:"placed_at"`
}

// OrderStatusChangedEvent is emitted when an order moves through the tailoring pipeline.
type OrderStatusChangedEvent struct {
	OrderID    uuid.UUID         `json:"order_id"`
	UserID     uuid.UUID         `json:"user_id"`
	FromStatus enums.OrderStatus `json:"from_status"`
	ToStatus   enums.OrderStatus `json:"to_status"`
	ChangedAt  time.Time         `json:"changed_at"`
}

// NotificationRequestedEvent tells downstream systems to alert a customer.
type NotificationRequestedEvent struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
	Type    string    `json:"type"`
}
