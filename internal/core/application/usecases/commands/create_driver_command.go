package commands

import (
	"errors"

	"fooddispatch/internal/core/domain/model/driver"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var ErrCreateDriverCommandIsNotConstructed = errors.New(
	"CreateDriverCommand must be created via NewCreateDriverCommand constructor",
)

// CreateDriverCommand registers a new driver with an initial location.
type CreateDriverCommand struct {
	driverID kernel.UUID
	name     string
	location kernel.GeoPoint
	vehicle  driver.Vehicle

	guard guard.ConstructorGuard
}

// NewCreateDriverCommand creates a command to register a driver.
func NewCreateDriverCommand(
	driverID kernel.UUID,
	name string,
	location kernel.GeoPoint,
	vehicle driver.Vehicle,
) (CreateDriverCommand, error) {
	if err := errors.Join(
		driverID.Validate(),
		location.Validate(),
		vehicle.Validate(),
	); err != nil {
		return CreateDriverCommand{}, err
	}
	if name == "" {
		return CreateDriverCommand{}, driver.ErrNameIsRequired
	}

	return CreateDriverCommand{
		driverID: driverID,
		name:     name,
		location: location,
		vehicle:  vehicle,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *CreateDriverCommand) Validate() error {
	return c.guard.Validate(ErrCreateDriverCommandIsNotConstructed)
}

// DriverID returns the new driver's identifier.
func (c *CreateDriverCommand) DriverID() kernel.UUID { return c.driverID }

// Name returns the driver's name.
func (c *CreateDriverCommand) Name() string { return c.name }

// Location returns the driver's initial position.
func (c *CreateDriverCommand) Location() kernel.GeoPoint { return c.location }

// Vehicle returns the driver's transport type.
func (c *CreateDriverCommand) Vehicle() driver.Vehicle { return c.vehicle }
