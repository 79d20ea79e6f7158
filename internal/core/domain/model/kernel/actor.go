package kernel

import (
	"errors"
	"fmt"

	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

// Role identifies who is performing a lifecycle operation. The authentication
// collaborator verifies the identity; the domain only decides what each role
// may do.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer is the person who placed the order.
	RoleCustomer

	// RoleRestaurant is the restaurant preparing the order.
	RoleRestaurant

	// RoleDriver is a delivery driver.
	RoleDriver

	// RoleSystem is the platform itself (dispatch, expiry sweeps).
	RoleSystem
)

// getRoleStrings returns the string representation of every role.
func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:    "unknown",
		RoleCustomer:   "customer",
		RoleRestaurant: "restaurant",
		RoleDriver:     "driver",
		RoleSystem:     "system",
	}
}

// RoleFromString parses a role name as supplied by the auth collaborator.
func RoleFromString(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if role != RoleUnknown && name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// Validate checks that the role is one of the defined values.
func (r Role) Validate() error {
	if r != RoleCustomer && r != RoleRestaurant && r != RoleDriver && r != RoleSystem {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the human-readable role name.
func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}

// ErrActorIsNotConstructed is returned when using an improperly initialized
// Actor.
var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor or NewSystemActor")

// Actor is the verified identity behind a lifecycle operation: a role plus,
// for customer/restaurant/driver roles, the entity identifier. System actors
// carry no identifier.
type Actor struct {
	id    *UUID
	role  Role
	guard guard.ConstructorGuard
}

// NewActor creates an actor for a customer, restaurant, or driver.
// The identifier is required and must be valid.
func NewActor(role Role, id UUID) (Actor, error) {
	if err := errors.Join(role.Validate(), id.Validate()); err != nil {
		return Actor{}, err
	}
	if role == RoleSystem {
		return Actor{}, errs.NewValueIsInvalidErrorWithCause("role",
			errors.New("system actors are created via NewSystemActor"))
	}

	return Actor{
		id:    &id,
		role:  role,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// NewSystemActor creates the platform actor used by dispatch and background
// jobs.
func NewSystemActor() Actor {
	return Actor{
		role:  RoleSystem,
		guard: guard.NewConstructorGuard(),
	}
}

// Validate checks that the actor was created through a constructor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// ID returns the actor's entity identifier, or nil for system actors.
func (a Actor) ID() *UUID {
	return a.id
}
