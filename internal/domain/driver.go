package domain

import (
	"time"

	"github.com/google/uuid"
)

// DriverStatus is the operational status of a driver.
// AVAILABLE and ON_DUTY are owned by the trip lifecycle; OFF_DUTY is a manual
// roster state; SUSPENDED is set by the compliance flow and blocks all new
// trip assignments until lifted.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "AVAILABLE"
	DriverOnDuty    DriverStatus = "ON_DUTY"
	DriverOffDuty   DriverStatus = "OFF_DUTY"
	DriverSuspended DriverStatus = "SUSPENDED"
)

// Valid reports whether s is one of the known driver statuses.
func (s DriverStatus) Valid() bool {
	switch s {
	case DriverAvailable, DriverOnDuty, DriverOffDuty, DriverSuspended:
		return true
	}
	return false
}

// Driver represents a single fleet driver.
// Invariant: a driver is ON_DUTY if and only if exactly one trip referencing
// them is DISPATCHED.
type Driver struct {
	ID              uuid.UUID    `json:"id"`
	Name            string       `json:"name"`
	LicenseNumber   string       `json:"license_number"`
	LicenseExpiry   time.Time    `json:"license_expiry"`
	LicenseCategory string       `json:"license_category"`
	Status          DriverStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
