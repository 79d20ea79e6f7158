package commands

import (
	"errors"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var ErrUpdateDriverLocationCommandIsNotConstructed = errors.New(
	"UpdateDriverLocationCommand must be created via NewUpdateDriverLocationCommand constructor",
)

// UpdateDriverLocationCommand records a driver's live position as pushed by
// the geography collaborator.
type UpdateDriverLocationCommand struct {
	driverID kernel.UUID
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewUpdateDriverLocationCommand creates a command to move a driver.
func NewUpdateDriverLocationCommand(driverID kernel.UUID, location kernel.GeoPoint) (UpdateDriverLocationCommand, error) {
	if err := errors.Join(driverID.Validate(), location.Validate()); err != nil {
		return UpdateDriverLocationCommand{}, err
	}

	return UpdateDriverLocationCommand{
		driverID: driverID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *UpdateDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverLocationCommandIsNotConstructed)
}

// DriverID returns the moving driver's identifier.
func (c *UpdateDriverLocationCommand) DriverID() kernel.UUID { return c.driverID }

// Location returns the driver's new position.
func (c *UpdateDriverLocationCommand) Location() kernel.GeoPoint { return c.location }
