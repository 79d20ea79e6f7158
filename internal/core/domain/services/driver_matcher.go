package services

import (
	"errors"
	"sort"

	"fooddispatch/internal/core/domain/model/driver"
	"fooddispatch/internal/core/domain/model/order"
)

// ErrNoEligibleDrivers is returned when no driver is available within the
// dispatch radius. The caller schedules a retry instead of failing the order.
var ErrNoEligibleDrivers = errors.New("no eligible drivers")

// DriverMatcher is a domain service that ranks drivers for an order's
// delivery task.
//
// Eligibility: the driver must have free capacity and be within maxRadiusKm
// of the order's pickup point. Ranking is by distance to pickup ascending;
// equal distances break the tie by driver id string ascending, so the same
// inputs always produce the same candidate list.
type DriverMatcher struct {
	maxRadiusKm float64
}

// NewDriverMatcher creates a matcher with the given dispatch radius in
// kilometers. A non-positive radius disables the radius filter.
func NewDriverMatcher(maxRadiusKm float64) DriverMatcher {
	return DriverMatcher{maxRadiusKm: maxRadiusKm}
}

// rankedDriver pairs a candidate with its distance to pickup for sorting.
type rankedDriver struct {
	driver     *driver.Driver
	distanceKm float64
}

// Match returns the eligible drivers for the order's delivery task, best
// candidate first. It returns ErrNoEligibleDrivers when the list is empty.
func (m DriverMatcher) Match(o *order.Order, drivers []*driver.Driver) ([]*driver.Driver, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	pickup := o.Pickup()
	ranked := make([]rankedDriver, 0, len(drivers))

	for _, d := range drivers {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if !d.IsAvailable() {
			continue
		}

		distanceKm, err := d.DistanceKmTo(pickup)
		if err != nil {
			return nil, err
		}
		if m.maxRadiusKm > 0 && distanceKm > m.maxRadiusKm {
			continue
		}

		ranked = append(ranked, rankedDriver{driver: d, distanceKm: distanceKm})
	}

	if len(ranked) == 0 {
		return nil, ErrNoEligibleDrivers
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].distanceKm != ranked[j].distanceKm {
			return ranked[i].distanceKm < ranked[j].distanceKm
		}
		return ranked[i].driver.ID().String() < ranked[j].driver.ID().String()
	})

	candidates := make([]*driver.Driver, len(ranked))
	for i, r := range ranked {
		candidates[i] = r.driver
	}
	return candidates, nil
}
