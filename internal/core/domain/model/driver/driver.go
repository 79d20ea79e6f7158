package driver

import (
	"errors"
	"fmt"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

// DefaultCapacity is the number of delivery tasks a driver may carry
// concurrently unless configured otherwise.
const DefaultCapacity = 1

// Domain errors for driver operations.
var (
	// ErrNameIsRequired is returned when attempting to create a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver")
	// ErrCapacityExceeded is returned by Reserve when the driver already
	// carries the maximum number of concurrent tasks.
	ErrCapacityExceeded = errors.New("driver capacity exceeded")
	// ErrNoActiveTasks is returned by Release when there is nothing to release.
	ErrNoActiveTasks = errors.New("driver has no active tasks")
)

// Driver represents a registered delivery driver.
//
// The aggregate tracks the driver's live location and the number of delivery
// tasks currently assigned to them. Availability is derived: a driver is
// available while activeTasks is below capacity. Reserve and Release are the
// only operations that change the task count; callers hold a per-driver row
// lock across them so concurrent accepts serialize.
type Driver struct {
	id       kernel.UUID
	name     string
	location kernel.GeoPoint
	vehicle  Vehicle

	activeTasks int
	capacity    int

	guard guard.ConstructorGuard
}

// NewDriver creates a driver with no active tasks.
//
// Parameters:
//   - id: unique driver identifier
//   - name: human-readable name (must be non-empty)
//   - location: initial position, pushed by the geography collaborator
//   - vehicle: transport type
//   - capacity: maximum concurrent tasks; values below 1 fall back to
//     DefaultCapacity
func NewDriver(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	vehicle Vehicle,
	capacity int,
) (*Driver, error) {
	driver := &Driver{
		guard: guard.NewConstructorGuard(),
	}

	if capacity < 1 {
		capacity = DefaultCapacity
	}

	if err := errors.Join(
		driver.setID(id),
		driver.setName(name),
		driver.setLocation(location),
		driver.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	driver.capacity = capacity
	return driver, nil
}

// RestoreDriver reconstructs a driver aggregate from persistent storage,
// including its current active-task count.
func RestoreDriver(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	vehicle Vehicle,
	activeTasks int,
	capacity int,
) (*Driver, error) {
	driver := &Driver{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		driver.setID(id),
		driver.setName(name),
		driver.setLocation(location),
		driver.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	if capacity < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("capacity",
			fmt.Errorf("%d is not greater than 0", capacity))
	}
	if activeTasks < 0 || activeTasks > capacity {
		return nil, errs.NewValueIsOutOfRangeError("active tasks", activeTasks, 0, capacity)
	}

	driver.activeTasks = activeTasks
	driver.capacity = capacity
	return driver, nil
}

// Validate ensures the Driver was created via a factory function.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// IsEqual compares two drivers by identifier.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's name.
func (d *Driver) Name() string {
	return d.name
}

// Location returns the driver's last known position.
func (d *Driver) Location() kernel.GeoPoint {
	return d.location
}

// Vehicle returns the driver's transport type.
func (d *Driver) Vehicle() Vehicle {
	return d.vehicle
}

// ActiveTasks returns the number of currently assigned delivery tasks.
func (d *Driver) ActiveTasks() int {
	return d.activeTasks
}

// Capacity returns the maximum number of concurrent delivery tasks.
func (d *Driver) Capacity() int {
	return d.capacity
}

// IsAvailable reports whether the driver can take another delivery task.
func (d *Driver) IsAvailable() bool {
	return d.activeTasks < d.capacity
}

// MoveTo updates the driver's live location.
func (d *Driver) MoveTo(location kernel.GeoPoint) error {
	return d.setLocation(location)
}

// Reserve claims one task slot. It fails with ErrCapacityExceeded when the
// driver is already at capacity; the caller then moves the offer on to the
// next candidate.
func (d *Driver) Reserve() error {
	if !d.IsAvailable() {
		return fmt.Errorf("%w: %d of %d tasks in progress", ErrCapacityExceeded,
			d.activeTasks, d.capacity)
	}

	d.activeTasks++
	return nil
}

// Release frees one task slot when a delivery completes, fails, or its order
// is cancelled.
func (d *Driver) Release() error {
	if d.activeTasks == 0 {
		return ErrNoActiveTasks
	}

	d.activeTasks--
	return nil
}

// DistanceKmTo returns the great-circle distance from the driver to the given
// point.
func (d *Driver) DistanceKmTo(point kernel.GeoPoint) (float64, error) {
	return d.location.DistanceKm(point)
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Driver) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = location
	return nil
}

func (d *Driver) setVehicle(vehicle Vehicle) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	d.vehicle = vehicle
	return nil
}
