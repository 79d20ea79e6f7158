package kernel

import "fmt"

// Money represents a monetary amount in minor currency units (cents).
// Order totals, delivery fees, and earning amounts are all Money values.
// Negative amounts are permitted for earning adjustments.
type Money int64

// NewMoneyFromCents wraps a cent amount as Money.
func NewMoneyFromCents(cents int64) Money {
	return Money(cents)
}

// Cents returns the amount in minor currency units.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return m + other
}

// MultiplyQty returns the amount multiplied by an item quantity.
func (m Money) MultiplyQty(qty int) Money {
	return m * Money(qty)
}

// String formats the amount as a decimal major-unit value, e.g. "12.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
