package services

import (
	"math"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
)

// FeeCalculator is a domain service computing the delivery fee credited to a
// driver when an order is delivered.
//
// The fee is base + perKm * distance(pickup, dropoff) + bonus. When the order
// has no dropoff coordinates the distance component is skipped and the fee
// falls back to base + bonus; delivery completion is never blocked on missing
// distance data.
type FeeCalculator struct {
	baseFee  kernel.Money
	perKmFee kernel.Money
	bonus    kernel.Money
}

// NewFeeCalculator creates a calculator with the given tariff in cents.
// The bonus is a flat incentive applied to every delivery; zero disables it.
func NewFeeCalculator(baseFee, perKmFee, bonus kernel.Money) FeeCalculator {
	return FeeCalculator{
		baseFee:  baseFee,
		perKmFee: perKmFee,
		bonus:    bonus,
	}
}

// DeliveryFee computes the fee for a delivered order. Fractional kilometers
// round up.
func (f FeeCalculator) DeliveryFee(o *order.Order) (kernel.Money, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}

	fee := f.baseFee.Add(f.bonus)

	dropoff := o.Dropoff()
	if dropoff == nil {
		return fee, nil
	}

	distanceKm, err := o.Pickup().DistanceKm(*dropoff)
	if err != nil {
		return fee, nil
	}

	return fee.Add(f.perKmFee.MultiplyQty(int(math.Ceil(distanceKm)))), nil
}

// Bonus returns the flat incentive portion of the tariff.
func (f FeeCalculator) Bonus() kernel.Money {
	return f.bonus
}
