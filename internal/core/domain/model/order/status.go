package order

import (
	"errors"
	"fmt"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
)

// Lifecycle errors surfaced to callers of the transition API.
var (
	// ErrInvalidTransition is returned when the requested edge does not exist
	// in the transition graph from the current status.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrActorNotAuthorized is returned when the edge exists but the actor's
	// role may not drive it.
	ErrActorNotAuthorized = errors.New("actor is not authorized for this transition")

	// ErrCancellationNotAllowed is returned when cancellation is requested at
	// or after pickup. Such orders must reach Delivered or Failed instead.
	ErrCancellationNotAllowed = errors.New("order can no longer be cancelled")
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Placed → RestaurantAccepted → Preparing → ReadyForPickup
//	       → DriverAssigned → PickedUp → Delivered
//
//	Cancelled: from any state before PickedUp
//	Failed:    from DriverAssigned or PickedUp
//
// Delivered, Cancelled, and Failed are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Placed is the initial status when a customer submits an order.
	Placed

	// RestaurantAccepted indicates the restaurant confirmed the order.
	// Payment capture is a precondition for entering this status.
	RestaurantAccepted

	// Preparing indicates the restaurant is preparing the order.
	Preparing

	// ReadyForPickup indicates the order awaits driver dispatch.
	ReadyForPickup

	// DriverAssigned indicates a driver accepted the delivery task.
	DriverAssigned

	// PickedUp indicates the driver collected the order.
	PickedUp

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled before pickup. Terminal.
	Cancelled

	// Failed indicates the delivery could not be completed. Terminal.
	Failed
)

// getStatusStrings returns a map of Status values to their string
// representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:            "Unknown",
		Placed:             "Placed",
		RestaurantAccepted: "RestaurantAccepted",
		Preparing:          "Preparing",
		ReadyForPickup:     "ReadyForPickup",
		DriverAssigned:     "DriverAssigned",
		PickedUp:           "PickedUp",
		Delivered:          "Delivered",
		Cancelled:          "Cancelled",
		Failed:             "Failed",
	}
}

// StatusFromString parses a status name as supplied on the transition API.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// cancelRoles lists the roles that may cancel an order before pickup.
func cancelRoles() []kernel.Role {
	return []kernel.Role{kernel.RoleCustomer, kernel.RoleRestaurant, kernel.RoleSystem}
}

// getTransitionRoles returns the transition graph: for each source status the
// reachable target statuses and the actor roles allowed to drive each edge.
func getTransitionRoles() map[Status]map[Status][]kernel.Role {
	return map[Status]map[Status][]kernel.Role{
		Placed: {
			RestaurantAccepted: {kernel.RoleRestaurant},
			Cancelled:          cancelRoles(),
		},
		RestaurantAccepted: {
			Preparing: {kernel.RoleRestaurant},
			Cancelled: cancelRoles(),
		},
		Preparing: {
			ReadyForPickup: {kernel.RoleRestaurant},
			Cancelled:      cancelRoles(),
		},
		ReadyForPickup: {
			DriverAssigned: {kernel.RoleSystem},
			Cancelled:      cancelRoles(),
		},
		DriverAssigned: {
			PickedUp:  {kernel.RoleDriver},
			Failed:    {kernel.RoleDriver, kernel.RoleSystem},
			Cancelled: cancelRoles(),
		},
		PickedUp: {
			Delivered: {kernel.RoleDriver},
			Failed:    {kernel.RoleDriver, kernel.RoleSystem},
		},
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// It implements fmt.Stringer and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status accepts no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Failed
}

// ValidateTransition checks whether the edge from the current status to
// target exists and may be driven by the given role, without performing the
// transition.
//
// Returns:
//   - ErrInvalidTransition if the current status is terminal or the edge
//     does not exist in the graph
//   - ErrCancellationNotAllowed if target is Cancelled and the order has
//     already been picked up
//   - ErrActorNotAuthorized if the edge exists but the role may not drive it
func (s Status) ValidateTransition(target Status, role kernel.Role) error {
	if err := errors.Join(s.Validate(), target.Validate(), role.Validate()); err != nil {
		return err
	}

	if s.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, s)
	}

	if target == Cancelled && s == PickedUp {
		return ErrCancellationNotAllowed
	}

	roles, ok := getTransitionRoles()[s][target]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
	}

	for _, allowed := range roles {
		if role == allowed {
			return nil
		}
	}

	return fmt.Errorf("%w: %s may not drive %s -> %s", ErrActorNotAuthorized, role, s, target)
}
