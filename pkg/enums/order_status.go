package enums

import "fmt"

// OrderStatus walks a placed order through the tailoring pipeline.
// Cancelled is terminal and reachable from any non-terminal state.
type OrderStatus string

const (
	OrderStatusPlaced       OrderStatus = "placed"
	OrderStatusConfirmed    OrderStatus = "confirmed"
	OrderStatusTailoring    OrderStatus = "tailoring"
	OrderStatusQualityCheck OrderStatus = "quality_check"
	OrderStatusReady        OrderStatus = "ready"
	OrderStatusDelivered    OrderStatus = "delivered"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

// orderStatusRank orders the forward progression; cancelled sits outside it.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPlaced:       0,
	OrderStatusConfirmed:    1,
	OrderStatusTailoring:    2,
	OrderStatusQualityCheck: 3,
	OrderStatusReady:        4,
	OrderStatusDelivered:    5,
}

var validOrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusTailoring,
	OrderStatusQualityCheck,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered || o == OrderStatusCancelled
}

// CanTransition reports whether moving from o to next is a legal step.
// Forward moves may skip stages; backward moves are rejected.
func (o OrderStatus) CanTransition(next OrderStatus) bool {
	if !o.IsValid() || !next.IsValid() || o == next {
		return false
	}
	if o.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return orderStatusRank[next] > orderStatusRank[o]
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
