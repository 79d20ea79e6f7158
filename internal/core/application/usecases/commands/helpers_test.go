package commands_test

import (
	"log/slog"
	"testing"
	"time"

	"fooddispatch/internal/core/domain/model/driver"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

const testOfferTTL = 20 * time.Second

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testNow() time.Time {
	return time.Now().UTC()
}

func mustPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return point
}

func mustActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(role, kernel.NewUUID())
	require.NoError(t, err)
	return actor
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem("Burger", 1, kernel.NewMoneyFromCents(1100))
	require.NoError(t, err)

	dropoff := mustPoint(t, 55.76, 37.64)
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		mustPoint(t, 55.75, 37.62), &dropoff, []order.Item{item}, time.Now().UTC(),
	)
	require.NoError(t, err)
	return o
}

// orderInStatus walks a fresh order to the given status along the happy path.
func orderInStatus(t *testing.T, target order.Status) *order.Order {
	t.Helper()
	o := newTestOrder(t)
	restaurant := mustActor(t, kernel.RoleRestaurant)
	driverActor := mustActor(t, kernel.RoleDriver)
	now := time.Now().UTC()

	for o.Status() != target {
		switch o.Status() {
		case order.Placed:
			require.NoError(t, o.TransitionTo(order.RestaurantAccepted, restaurant, now))
		case order.RestaurantAccepted:
			require.NoError(t, o.TransitionTo(order.Preparing, restaurant, now))
		case order.Preparing:
			require.NoError(t, o.TransitionTo(order.ReadyForPickup, restaurant, now))
		case order.ReadyForPickup:
			require.NoError(t, o.AssignDriver(kernel.NewUUID(), now))
		case order.DriverAssigned:
			require.NoError(t, o.TransitionTo(order.PickedUp, driverActor, now))
		default:
			t.Fatalf("cannot reach %s from %s", target, o.Status())
		}
	}
	return o
}

func newTestDriver(t *testing.T, capacity int) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(
		kernel.NewUUID(), "Dana", mustPoint(t, 55.75, 37.62),
		driver.VehicleScooter, capacity,
	)
	require.NoError(t, err)
	return d
}
