package domain

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is the operational status of a vehicle.
// AVAILABLE and ON_TRIP are owned by the trip lifecycle; IN_SHOP is set by the
// maintenance flow; RETIRED is a manual, permanent withdrawal from service.
type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "AVAILABLE"
	VehicleOnTrip    VehicleStatus = "ON_TRIP"
	VehicleInShop    VehicleStatus = "IN_SHOP"
	VehicleRetired   VehicleStatus = "RETIRED"
)

// Valid reports whether s is one of the known vehicle statuses.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleOnTrip, VehicleInShop, VehicleRetired:
		return true
	}
	return false
}

// Vehicle represents a single fleet vehicle.
// Invariant: a vehicle is ON_TRIP if and only if exactly one trip referencing
// it is DISPATCHED. The odometer is monotonically non-decreasing and is
// written only on trip completion.
type Vehicle struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	Model           string        `json:"model,omitempty"`
	LicensePlate    string        `json:"license_plate"`
	Type            string        `json:"type"`
	MaxCapacity     float64       `json:"max_capacity"` // kg
	Odometer        float64       `json:"odometer"`     // km
	InitialOdometer float64       `json:"initial_odometer"`
	AcquisitionCost float64       `json:"acquisition_cost"`
	Status          VehicleStatus `json:"status"`
	Region          string        `json:"region"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
