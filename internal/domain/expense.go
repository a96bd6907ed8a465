package domain

import (
	"time"

	"github.com/google/uuid"
)

// Expense is a free-form cost record. All entity references are optional —
// an expense may be attached to a trip, a vehicle, a driver, or none of them.
type Expense struct {
	ID          uuid.UUID  `json:"id"`
	TripID      *uuid.UUID `json:"trip_id,omitempty"`
	VehicleID   *uuid.UUID `json:"vehicle_id,omitempty"`
	DriverID    *uuid.UUID `json:"driver_id,omitempty"`
	Category    string     `json:"category"` // TOLL, REPAIR, FINE, OTHER, ...
	Amount      float64    `json:"amount"`
	Description string     `json:"description,omitempty"`
	Date        time.Time  `json:"date"`
	CreatedAt   time.Time  `json:"created_at"`
}
