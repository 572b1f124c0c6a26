package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// materialFeeRate is the surcharge applied when the shop provides the fabric.
var materialFeeRate = decimal.NewFromFloat(0.20)

// MaterialFee returns the fee for shop-provided material: 20% of the base
// price rounded to the nearest whole currency unit. Customer-provided
// material carries no fee.
func MaterialFee(basePrice decimal.Decimal, provision enums.MaterialProvision) decimal.Decimal {
	if provision.CustomerProvides() {
		return decimal.Zero
	}
	return basePrice.Mul(materialFeeRate).Round(0)
}

// LineTotal prices one line: (unit price + material fee) multiplied by the
// quantity. No rounding is applied beyond the fee itself.
func LineTotal(unitPrice, materialFee decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Add(materialFee).Mul(decimal.NewFromInt(int64(quantity)))
}

// Line is the minimal shape the aggregate calculators need.
type Line interface {
	LineUnitPrice() decimal.Decimal
	LineMaterialFee() decimal.Decimal
	LineQuantity() int
}

// CartTotal sums the line totals across the cart.
func CartTotal[L Line](lines []L) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line.LineUnitPrice(), line.LineMaterialFee(), line.LineQuantity()))
	}
	return total
}

// CartCount sums the quantities across the cart.
func CartCount[L Line](lines []L) int {
	count := 0
	for _, line := range lines {
		count += line.LineQuantity()
	}
	return count
}
