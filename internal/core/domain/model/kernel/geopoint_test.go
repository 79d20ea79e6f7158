package kernel_test

import (
	"testing"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(52.52, 13.405)

		require.NoError(t, err)
		assert.InDelta(t, 52.52, point.Latitude(), 1e-9)
		assert.InDelta(t, 13.405, point.Longitude(), 1e-9)
	})

	t.Run("boundary coordinates", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90, 180)
		require.NoError(t, err)

		_, err = kernel.NewGeoPoint(-90, -180)
		require.NoError(t, err)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 0)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("longitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -181)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	var zero kernel.GeoPoint
	require.Error(t, zero.Validate())

	point, _ := kernel.NewGeoPoint(1, 1)
	require.NoError(t, point.Validate())
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a, _ := kernel.NewGeoPoint(52.52, 13.405)
	b, _ := kernel.NewGeoPoint(52.52, 13.405)
	c, _ := kernel.NewGeoPoint(48.8566, 2.3522)

	equal, err := a.IsEqual(b)
	require.NoError(t, err)
	assert.True(t, equal)

	equal, err = a.IsEqual(c)
	require.NoError(t, err)
	assert.False(t, equal)

	var zero kernel.GeoPoint
	_, err = a.IsEqual(zero)
	require.Error(t, err)
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	t.Run("known distance", func(t *testing.T) {
		// Berlin to Paris is roughly 878 km.
		berlin, _ := kernel.NewGeoPoint(52.52, 13.405)
		paris, _ := kernel.NewGeoPoint(48.8566, 2.3522)

		distance, err := berlin.DistanceKm(paris)

		require.NoError(t, err)
		assert.InDelta(t, 878, distance, 5)
	})

	t.Run("zero distance to itself", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(10, 10)

		distance, err := point.DistanceKm(point)

		require.NoError(t, err)
		assert.InDelta(t, 0, distance, 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(40.7128, -74.006)
		b, _ := kernel.NewGeoPoint(34.0522, -118.2437)

		ab, err := a.DistanceKm(b)
		require.NoError(t, err)
		ba, err := b.DistanceKm(a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("unconstructed point fails", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(10, 10)
		var zero kernel.GeoPoint

		_, err := point.DistanceKm(zero)
		require.Error(t, err)
	})
}
