package enums

import "fmt"

// MaterialProvision records who supplies the fabric for a tailored piece.
// Customer-provided material waives the material fee.
type MaterialProvision string

const (
	MaterialProvisionShop     MaterialProvision = "shop"
	MaterialProvisionCustomer MaterialProvision = "customer"
)

var validMaterialProvisions = []MaterialProvision{
	MaterialProvisionShop,
	MaterialProvisionCustomer,
}

// String implements fmt.Stringer.
func (m MaterialProvision) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MaterialProvision.
func (m MaterialProvision) IsValid() bool {
	for _, candidate := range validMaterialProvisions {
		if candidate == m {
			return true
		}
	}
	return false
}

// CustomerProvides reports whether the shopper supplies their own fabric.
func (m MaterialProvision) CustomerProvides() bool {
	return m == MaterialProvisionCustomer
}

// ParseMaterialProvision converts raw input into a MaterialProvision.
func ParseMaterialProvision(value string) (MaterialProvision, error) {
	for _, candidate := range validMaterialProvisions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material provision %q", value)
}
