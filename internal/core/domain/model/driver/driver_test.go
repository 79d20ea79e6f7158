package driver_test

import (
	"testing"

	"fooddispatch/internal/core/domain/model/driver"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return point
}

func newTestDriver(t *testing.T, capacity int) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(
		kernel.NewUUID(), "Alice", mustPoint(t, 55.75, 37.62),
		driver.VehicleBicycle, capacity,
	)
	require.NoError(t, err)
	return d
}

func TestNewDriver(t *testing.T) {
	d := newTestDriver(t, 2)

	require.NoError(t, d.Validate())
	assert.Equal(t, "Alice", d.Name())
	assert.Equal(t, driver.VehicleBicycle, d.Vehicle())
	assert.Equal(t, 2, d.Capacity())
	assert.Zero(t, d.ActiveTasks())
	assert.True(t, d.IsAvailable())
}

func TestNewDriver_DefaultCapacity(t *testing.T) {
	d := newTestDriver(t, 0)
	assert.Equal(t, driver.DefaultCapacity, d.Capacity())
}

func TestNewDriver_Errors(t *testing.T) {
	location := mustPoint(t, 55.75, 37.62)

	_, err := driver.NewDriver(kernel.NewUUID(), "", location, driver.VehicleCar, 1)
	require.ErrorIs(t, err, driver.ErrNameIsRequired)

	_, err = driver.NewDriver(kernel.NewUUID(), "Bob", location, driver.VehicleUnknown, 1)
	require.Error(t, err)

	_, err = driver.NewDriver(kernel.UUID{}, "Bob", location, driver.VehicleCar, 1)
	require.Error(t, err)
}

func TestDriver_ReserveAndRelease(t *testing.T) {
	d := newTestDriver(t, 1)

	require.NoError(t, d.Reserve())
	assert.Equal(t, 1, d.ActiveTasks())
	assert.False(t, d.IsAvailable())

	err := d.Reserve()
	require.ErrorIs(t, err, driver.ErrCapacityExceeded)
	assert.Equal(t, 1, d.ActiveTasks())

	require.NoError(t, d.Release())
	assert.Zero(t, d.ActiveTasks())
	assert.True(t, d.IsAvailable())

	err = d.Release()
	require.ErrorIs(t, err, driver.ErrNoActiveTasks)
}

func TestDriver_MoveTo(t *testing.T) {
	d := newTestDriver(t, 1)
	next := mustPoint(t, 55.80, 37.60)

	require.NoError(t, d.MoveTo(next))
	equal, err := d.Location().IsEqual(next)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestDriver_DistanceKmTo(t *testing.T) {
	d := newTestDriver(t, 1)

	distance, err := d.DistanceKmTo(d.Location())
	require.NoError(t, err)
	assert.InDelta(t, 0.0, distance, 1e-9)

	distance, err = d.DistanceKmTo(mustPoint(t, 55.76, 37.62))
	require.NoError(t, err)
	assert.Greater(t, distance, 1.0)
	assert.Less(t, distance, 1.3)
}

func TestRestoreDriver(t *testing.T) {
	id := kernel.NewUUID()
	location := mustPoint(t, 55.75, 37.62)

	d, err := driver.RestoreDriver(id, "Carol", location, driver.VehicleScooter, 1, 2)
	require.NoError(t, err)
	require.NoError(t, d.Validate())
	assert.Equal(t, 1, d.ActiveTasks())
	assert.True(t, d.IsAvailable())

	_, err = driver.RestoreDriver(id, "Carol", location, driver.VehicleScooter, 3, 2)
	require.Error(t, err)

	_, err = driver.RestoreDriver(id, "Carol", location, driver.VehicleScooter, 0, 0)
	require.Error(t, err)
}

func TestVehicleFromString(t *testing.T) {
	vehicle, err := driver.VehicleFromString("scooter")
	require.NoError(t, err)
	assert.Equal(t, driver.VehicleScooter, vehicle)

	_, err = driver.VehicleFromString("boat")
	require.Error(t, err)
}
