package order

import (
	"errors"
	"fmt"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory functions.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// StatusChange is one entry of an order's transition history.
type StatusChange struct {
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
}

// Order represents a customer's order from a single restaurant, tracked
// through its lifecycle to delivery or termination. It is the aggregate root
// of the order lifecycle state machine.
//
// Invariants:
//   - status transitions are monotonic along the transition graph; every
//     accepted transition appends a timestamped history entry
//   - at most one driver is bound at any time, and only while the order is
//     in DriverAssigned or a later delivery state
//   - terminal statuses (Delivered, Cancelled, Failed) never mutate further
//
// Dispatch bookkeeping (attempt counter, next-dispatch schedule, the
// unassignable flag) lives on the order so retry state survives restarts.
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID

	// pickup is the restaurant's location, supplied by the geography
	// collaborator. Dispatch eligibility is ranked against it.
	pickup kernel.GeoPoint

	// dropoff is the delivery destination. It may be nil when the geography
	// collaborator has no coordinates; earnings then fall back to the base
	// fee only.
	dropoff *kernel.GeoPoint

	items   []Item
	total   kernel.Money
	status  Status
	history []StatusChange

	// driverID is the bound driver, nil until dispatch succeeds.
	driverID *kernel.UUID

	dispatchAttempts int
	nextDispatchAt   *time.Time
	unassignable     bool

	guard guard.ConstructorGuard
}

// NewOrder creates an order in Placed status with its first history entry.
//
// Parameters:
//   - id, customerID, restaurantID: valid identifiers
//   - pickup: restaurant location (required)
//   - dropoff: delivery destination, nil when unknown
//   - items: at least one valid line item
//   - placedAt: timestamp of the initial Placed entry
//
// The order total is computed as the sum of item subtotals.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	pickup kernel.GeoPoint,
	dropoff *kernel.GeoPoint,
	items []Item,
	placedAt time.Time,
) (*Order, error) {
	order := &Order{
		status: Placed,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setRestaurantID(restaurantID),
		order.setPickup(pickup),
		order.setDropoff(dropoff),
		order.setItems(items),
	); err != nil {
		return nil, err
	}

	order.history = []StatusChange{{Status: Placed, At: placedAt}}
	return order, nil
}

// RestoreOrder reconstructs an order aggregate from persistent storage,
// including its transition history and dispatch bookkeeping. The restored
// order behaves identically to one built up through domain operations.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	pickup kernel.GeoPoint,
	dropoff *kernel.GeoPoint,
	items []Item,
	status Status,
	driverID *kernel.UUID,
	history []StatusChange,
	dispatchAttempts int,
	nextDispatchAt *time.Time,
	unassignable bool,
) (*Order, error) {
	order := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setRestaurantID(restaurantID),
		order.setPickup(pickup),
		order.setDropoff(dropoff),
		order.setItems(items),
		order.setStatus(status),
		order.setDriverID(driverID),
	); err != nil {
		return nil, err
	}

	order.history = make([]StatusChange, len(history))
	copy(order.history, history)
	order.dispatchAttempts = dispatchAttempts
	order.nextDispatchAt = nextDispatchAt
	order.unassignable = unassignable
	return order, nil
}

// Validate ensures the Order was created via a factory function.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the preparing restaurant's identifier.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// Pickup returns the restaurant's location.
func (o *Order) Pickup() kernel.GeoPoint {
	return o.pickup
}

// Dropoff returns the delivery destination, or nil when unknown.
func (o *Order) Dropoff() *kernel.GeoPoint {
	return o.dropoff
}

// Items returns a copy of the ordered line items.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Total returns the order total (sum of item subtotals).
func (o *Order) Total() kernel.Money {
	return o.total
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the transition history in append order.
func (o *Order) History() []StatusChange {
	out := make([]StatusChange, len(o.history))
	copy(out, o.history)
	return out
}

// Driver returns the bound driver's identifier, or nil when unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// DispatchAttempts returns how many dispatch attempts have been made.
func (o *Order) DispatchAttempts() int {
	return o.dispatchAttempts
}

// NextDispatchAt returns the scheduled time of the next dispatch attempt,
// or nil when none is scheduled.
func (o *Order) NextDispatchAt() *time.Time {
	return o.nextDispatchAt
}

// IsUnassignable reports whether dispatch retries were exhausted and the
// order awaits manual intervention.
func (o *Order) IsUnassignable() bool {
	return o.unassignable
}

// TransitionTo moves the order to the target status on behalf of the given
// actor, appending a timestamped history entry.
//
// The edge must exist in the transition graph and the actor's role must be
// allowed to drive it; see Status.ValidateTransition for the error taxonomy.
// DriverAssigned cannot be reached through this method - driver binding goes
// through AssignDriver as part of a successful dispatch.
//
// Side effects on accepted transitions:
//   - Cancelled unbinds any driver reference
//   - any terminal status clears the dispatch schedule
func (o *Order) TransitionTo(target Status, by kernel.Actor, at time.Time) error {
	if err := by.Validate(); err != nil {
		return err
	}

	if target == DriverAssigned {
		return fmt.Errorf("%w: %s is entered via dispatch only", ErrInvalidTransition, DriverAssigned)
	}

	if err := o.status.ValidateTransition(target, by.Role()); err != nil {
		return err
	}

	o.applyTransition(target, at)
	return nil
}

// AssignDriver binds a driver to the order and performs the
// ReadyForPickup -> DriverAssigned transition. Invoked by the platform when a
// task offer is accepted and the driver reservation succeeded.
func (o *Order) AssignDriver(driverID kernel.UUID, at time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if err := o.status.ValidateTransition(DriverAssigned, kernel.RoleSystem); err != nil {
		return err
	}

	o.driverID = &driverID
	o.applyTransition(DriverAssigned, at)
	return nil
}

// ScheduleDispatch sets the time of the next dispatch attempt. The order must
// still be awaiting a driver.
func (o *Order) ScheduleDispatch(at time.Time) error {
	if o.status != ReadyForPickup {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%s is not awaiting dispatch", o.status))
	}

	o.nextDispatchAt = &at
	return nil
}

// BeginDispatch clears the retry schedule when a task offer goes out for the
// order. The order stops being due for dispatch until the offer resolves.
func (o *Order) BeginDispatch() error {
	if o.status != ReadyForPickup {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%s is not awaiting dispatch", o.status))
	}

	o.nextDispatchAt = nil
	return nil
}

// RegisterDispatchAttempt counts a dispatch attempt against the retry cap and
// clears the dispatch schedule. When the attempt count exceeds maxAttempts
// the order is marked unassignable and true is returned; the caller then
// escalates to the notification collaborator while the order remains in
// ReadyForPickup for manual intervention.
func (o *Order) RegisterDispatchAttempt(maxAttempts int) (bool, error) {
	if o.status != ReadyForPickup {
		return false, errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%s is not awaiting dispatch", o.status))
	}

	o.dispatchAttempts++
	o.nextDispatchAt = nil

	if o.dispatchAttempts > maxAttempts {
		o.unassignable = true
		return true, nil
	}

	return false, nil
}

// applyTransition records the accepted transition and its side effects.
func (o *Order) applyTransition(target Status, at time.Time) {
	o.status = target
	o.history = append(o.history, StatusChange{Status: target, At: at})

	if target == Cancelled {
		o.driverID = nil
	}
	if target.IsTerminal() {
		o.nextDispatchAt = nil
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setPickup(pickup kernel.GeoPoint) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	o.pickup = pickup
	return nil
}

func (o *Order) setDropoff(dropoff *kernel.GeoPoint) error {
	if dropoff == nil {
		return nil
	}
	if err := dropoff.Validate(); err != nil {
		return err
	}
	point := *dropoff
	o.dropoff = &point
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}

	total := kernel.Money(0)
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		total = total.Add(item.Subtotal())
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.total = total
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setDriverID(driverID *kernel.UUID) error {
	if driverID == nil {
		return nil
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	id := *driverID
	o.driverID = &id
	return nil
}
