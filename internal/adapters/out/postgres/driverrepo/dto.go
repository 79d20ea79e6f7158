// Package driverrepo provides data transfer objects and mapping functions for
// driver persistence. It implements the repository pattern for the driver
// aggregate, converting between domain entities and database rows.
package driverrepo

import (
	"fooddispatch/internal/core/domain/model/driver"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver aggregates.
type DriverDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string

	Lat float64
	Lng float64

	Vehicle string

	ActiveTasks int
	Capacity    int
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:          aggregate.ID().Bytes(),
		Name:        aggregate.Name(),
		Lat:         aggregate.Location().Latitude(),
		Lng:         aggregate.Location().Longitude(),
		Vehicle:     aggregate.Vehicle().String(),
		ActiveTasks: aggregate.ActiveTasks(),
		Capacity:    aggregate.Capacity(),
	}
}

// toDomain converts a database row back to a driver aggregate via
// RestoreDriver.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}

	vehicle, err := driver.VehicleFromString(dto.Vehicle)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(id, dto.Name, location, vehicle, dto.ActiveTasks, dto.Capacity)
}
