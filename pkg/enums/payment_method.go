package enums

import "fmt"

// PaymentMethod describes how a shopper intends to settle an order.
// Both prepayment variants route through the wallet provider.
type PaymentMethod string

const (
	PaymentMethodPrepaidFull        PaymentMethod = "prepaid_full"
	PaymentMethodPrepaidInstallment PaymentMethod = "prepaid_installment"
	PaymentMethodPayOnPickup        PaymentMethod = "pay_on_pickup"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodPrepaidFull,
	PaymentMethodPrepaidInstallment,
	PaymentMethodPayOnPickup,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresWallet reports whether settlement goes through the wallet provider.
func (p PaymentMethod) RequiresWallet() bool {
	return p == PaymentMethodPrepaidFull || p == PaymentMethodPrepaidInstallment
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
