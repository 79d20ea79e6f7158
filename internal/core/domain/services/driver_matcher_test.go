package services_test

import (
	"testing"
	"time"

	"fooddispatch/internal/core/domain/model/driver"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return point
}

func newTestOrder(t *testing.T, pickup kernel.GeoPoint) *order.Order {
	t.Helper()
	item, err := order.NewItem("Ramen", 1, kernel.NewMoneyFromCents(1200))
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		pickup, nil, []order.Item{item}, time.Now().UTC(),
	)
	require.NoError(t, err)
	return o
}

func newDriverAt(t *testing.T, name string, location kernel.GeoPoint) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), name, location, driver.VehicleBicycle, 1)
	require.NoError(t, err)
	return d
}

func TestDriverMatcher_RanksByDistance(t *testing.T) {
	pickup := mustPoint(t, 55.75, 37.62)
	o := newTestOrder(t, pickup)

	near := newDriverAt(t, "near", mustPoint(t, 55.751, 37.62))
	mid := newDriverAt(t, "mid", mustPoint(t, 55.76, 37.62))
	far := newDriverAt(t, "far", mustPoint(t, 55.78, 37.62))

	matcher := services.NewDriverMatcher(10)
	candidates, err := matcher.Match(o, []*driver.Driver{far, near, mid})
	require.NoError(t, err)

	require.Len(t, candidates, 3)
	assert.Equal(t, "near", candidates[0].Name())
	assert.Equal(t, "mid", candidates[1].Name())
	assert.Equal(t, "far", candidates[2].Name())
}

func TestDriverMatcher_TieBreaksByID(t *testing.T) {
	pickup := mustPoint(t, 55.75, 37.62)
	o := newTestOrder(t, pickup)

	samePlace := mustPoint(t, 55.76, 37.62)
	a := newDriverAt(t, "a", samePlace)
	b := newDriverAt(t, "b", samePlace)
	far := newDriverAt(t, "far", mustPoint(t, 55.78, 37.62))

	matcher := services.NewDriverMatcher(10)
	candidates, err := matcher.Match(o, []*driver.Driver{far, b, a})
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	// Same distance: the lexicographically smaller id wins, regardless of
	// input order.
	first, second := candidates[0], candidates[1]
	assert.Less(t, first.ID().String(), second.ID().String())
	assert.Equal(t, "far", candidates[2].Name())

	// Re-matching with a shuffled input yields the identical ranking.
	again, err := matcher.Match(o, []*driver.Driver{a, far, b})
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.True(t, again[0].IsEqual(first))
	assert.True(t, again[1].IsEqual(second))
}

func TestDriverMatcher_FiltersUnavailable(t *testing.T) {
	pickup := mustPoint(t, 55.75, 37.62)
	o := newTestOrder(t, pickup)

	busy := newDriverAt(t, "busy", mustPoint(t, 55.751, 37.62))
	require.NoError(t, busy.Reserve())
	free := newDriverAt(t, "free", mustPoint(t, 55.76, 37.62))

	matcher := services.NewDriverMatcher(10)
	candidates, err := matcher.Match(o, []*driver.Driver{busy, free})
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "free", candidates[0].Name())
}

func TestDriverMatcher_FiltersOutsideRadius(t *testing.T) {
	pickup := mustPoint(t, 55.75, 37.62)
	o := newTestOrder(t, pickup)

	// Roughly 11 km north of pickup.
	distant := newDriverAt(t, "distant", mustPoint(t, 55.85, 37.62))

	matcher := services.NewDriverMatcher(5)
	_, err := matcher.Match(o, []*driver.Driver{distant})
	require.ErrorIs(t, err, services.ErrNoEligibleDrivers)

	// A wider radius admits the same driver.
	wide := services.NewDriverMatcher(20)
	candidates, err := wide.Match(o, []*driver.Driver{distant})
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestDriverMatcher_NoDrivers(t *testing.T) {
	o := newTestOrder(t, mustPoint(t, 55.75, 37.62))

	matcher := services.NewDriverMatcher(10)
	_, err := matcher.Match(o, nil)
	require.ErrorIs(t, err, services.ErrNoEligibleDrivers)
}
