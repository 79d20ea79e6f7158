package services_test

import (
	"testing"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderWithDropoff(t *testing.T, dropoff *kernel.GeoPoint) *order.Order {
	t.Helper()
	item, err := order.NewItem("Pho", 1, kernel.NewMoneyFromCents(900))
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		mustPoint(t, 55.75, 37.62), dropoff, []order.Item{item}, time.Now().UTC(),
	)
	require.NoError(t, err)
	return o
}

func TestFeeCalculator_WithDistance(t *testing.T) {
	// Roughly 1.1 km from pickup; rounds up to 2 km.
	dropoff := mustPoint(t, 55.76, 37.62)
	o := newOrderWithDropoff(t, &dropoff)

	calc := services.NewFeeCalculator(
		kernel.NewMoneyFromCents(300),
		kernel.NewMoneyFromCents(50),
		kernel.NewMoneyFromCents(100),
	)

	fee, err := calc.DeliveryFee(o)
	require.NoError(t, err)
	assert.Equal(t, int64(300+2*50+100), fee.Cents())
}

func TestFeeCalculator_MissingDropoffFallsBackToBase(t *testing.T) {
	o := newOrderWithDropoff(t, nil)

	calc := services.NewFeeCalculator(
		kernel.NewMoneyFromCents(300),
		kernel.NewMoneyFromCents(50),
		kernel.NewMoneyFromCents(0),
	)

	fee, err := calc.DeliveryFee(o)
	require.NoError(t, err)
	assert.Equal(t, int64(300), fee.Cents())
}

func TestFeeCalculator_Bonus(t *testing.T) {
	calc := services.NewFeeCalculator(
		kernel.NewMoneyFromCents(300),
		kernel.NewMoneyFromCents(50),
		kernel.NewMoneyFromCents(150),
	)
	assert.Equal(t, int64(150), calc.Bonus().Cents())
}
