package types

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// MeasurementSet maps measurement names to values in inches.
// Stored as jsonb on the profile row.
type MeasurementSet map[enums.MeasurementName]decimal.Decimal

// Validate rejects unknown names and non-positive values.
func (m MeasurementSet) Validate() error {
	for name, value := range m {
		if !name.IsValid() {
			return fmt.Errorf("unknown measurement %q", name)
		}
		if !value.IsPositive() {
			return fmt.Errorf("measurement %q must be positive, got %s", name, value)
		}
	}
	return nil
}

// IsEmpty reports whether no measurement values are present.
func (m MeasurementSet) IsEmpty() bool {
	return len(m) == 0
}

// Clone returns an independent copy of the set.
func (m MeasurementSet) Clone() MeasurementSet {
	if m == nil {
		return nil
	}
	out := make(MeasurementSet, len(m))
	for name, value := range m {
		out[name] = value
	}
	return out
}
