package checkout

import (
	"github.com/sewnstudio/atelier-backend/internal/orders"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// SubmitInput is the payload for placing an order from the active cart.
type SubmitInput struct {
	PaymentMethod enums.PaymentMethod `json:"payment_method" validate:"required"`
	ContactName   string              `json:"contact_name" validate:"required"`
	ContactPhone  string              `json:"contact_phone" validate:"required"`
}

// SubmitOutput returns the placed order; prepaid methods include the payment
// link the shopper settles externally.
type SubmitOutput struct {
	Order       orders.OrderDTO `json:"order"`
	PaymentLink *string         `json:"payment_link,omitempty"`
}
