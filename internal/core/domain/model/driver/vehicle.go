package driver

import (
	"fmt"

	"fooddispatch/internal/pkg/errs"
)

// Vehicle is the driver's transport type. It is registry metadata today; it
// does not affect dispatch ranking.
type Vehicle int

const (
	// VehicleUnknown represents an invalid or undefined vehicle.
	VehicleUnknown Vehicle = iota

	// VehicleBicycle is a bicycle.
	VehicleBicycle

	// VehicleScooter is a motor scooter.
	VehicleScooter

	// VehicleCar is a car.
	VehicleCar
)

// getVehicleStrings returns the string representation of every vehicle type.
func getVehicleStrings() map[Vehicle]string {
	return map[Vehicle]string{
		VehicleUnknown: "unknown",
		VehicleBicycle: "bicycle",
		VehicleScooter: "scooter",
		VehicleCar:     "car",
	}
}

// VehicleFromString parses a vehicle name as supplied on driver registration.
func VehicleFromString(s string) (Vehicle, error) {
	for vehicle, name := range getVehicleStrings() {
		if vehicle != VehicleUnknown && name == s {
			return vehicle, nil
		}
	}
	return VehicleUnknown, errs.NewValueIsInvalidErrorWithCause("vehicle",
		fmt.Errorf("%q is not a valid vehicle", s))
}

// Validate checks that the vehicle is one of the defined types.
func (v Vehicle) Validate() error {
	if v != VehicleBicycle && v != VehicleScooter && v != VehicleCar {
		return errs.NewValueIsInvalidErrorWithCause("vehicle",
			fmt.Errorf("%d is not a valid vehicle", v))
	}
	return nil
}

// String returns the human-readable vehicle name.
func (v Vehicle) String() string {
	if s, ok := getVehicleStrings()[v]; ok {
		return s
	}
	return "unknown"
}
