package cart

import (
	"github.com/shopspring/decimal"

	"github.com/sewnstudio/atelier-backend/internal/pricing"
	"github.com/sewnstudio/atelier-backend/pkg/db/models"
)

// Aggregate applies the cart mutation rules over an ordered line sequence.
// Every mutation renumbers positions and leaves the lines ready to persist;
// totals are recomputed on read so they can never drift from the lines.
type Aggregate struct {
	lines []models.CartLine
}

// NewAggregate wraps the given lines. The slice is copied so repository rows
// are never mutated in place.
func NewAggregate(lines []models.CartLine) *Aggregate {
	copied := make([]models.CartLine, len(lines))
	copy(copied, lines)
	a := &Aggregate{lines: copied}
	a.renumber()
	return a
}

// Add merges the line into an existing one with the same identity key by
// summing quantity, keeping the first add's fabric and material fields.
// Otherwise the line is appended at the tail. Quantity below 1 is coerced
// to 1 on entry.
func (a *Aggregate) Add(line models.CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	for i := range a.lines {
		if a.lines[i].ItemID == line.ItemID && a.lines[i].MeasurementRef == line.MeasurementRef {
			a.lines[i].Quantity += line.Quantity
			return
		}
	}
	a.lines = append(a.lines, line)
	a.renumber()
}

// Remove drops the line at the given index. Out-of-range indexes are a
// silent no-op.
func (a *Aggregate) Remove(index int) {
	if index < 0 || index >= len(a.lines) {
		return
	}
	a.lines = append(a.lines[:index], a.lines[index+1:]...)
	a.renumber()
}

// SetQuantity clamps the quantity to max(0, q). Zero-quantity lines persist;
// removal is a distinct action.
func (a *Aggregate) SetQuantity(index, quantity int) {
	if index < 0 || index >= len(a.lines) {
		return
	}
	if quantity < 0 {
		quantity = 0
	}
	a.lines[index].Quantity = quantity
}

// Clear drops every line unconditionally.
func (a *Aggregate) Clear() {
	a.lines = a.lines[:0]
}

// Lines returns a copy of the ordered line sequence.
func (a *Aggregate) Lines() []models.CartLine {
	out := make([]models.CartLine, len(a.lines))
	copy(out, a.lines)
	return out
}

// Len returns the number of lines, counting zero-quantity ones.
func (a *Aggregate) Len() int {
	return len(a.lines)
}

// IsEmpty reports whether the cart holds no purchasable quantity.
func (a *Aggregate) IsEmpty() bool {
	return a.Count() == 0
}

// Total sums the line totals across the cart.
func (a *Aggregate) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range a.lines {
		total = total.Add(pricing.LineTotal(a.lines[i].UnitPrice, a.lines[i].MaterialFee, a.lines[i].Quantity))
	}
	return total
}

// Count sums the quantities across the cart.
func (a *Aggregate) Count() int {
	count := 0
	for i := range a.lines {
		count += a.lines[i].Quantity
	}
	return count
}

func lineTotal(line *models.CartLine) decimal.Decimal {
	return pricing.LineTotal(line.UnitPrice, line.MaterialFee, line.Quantity)
}

func (a *Aggregate) renumber() {
	for i := range a.lines {
		a.lines[i].Position = i
	}
}
