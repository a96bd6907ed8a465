package domain

import (
	"time"

	"github.com/google/uuid"
)

// FuelLog records one refuelling event. Trip and driver references are
// optional: fuel can be bought outside any trip.
type FuelLog struct {
	ID        uuid.UUID  `json:"id"`
	TripID    *uuid.UUID `json:"trip_id,omitempty"`
	VehicleID uuid.UUID  `json:"vehicle_id"`
	DriverID  *uuid.UUID `json:"driver_id,omitempty"`
	Liters    float64    `json:"liters"`
	Cost      float64    `json:"cost"`
	Distance  float64    `json:"distance"` // km covered since the previous fill
	Date      time.Time  `json:"date"`
	CreatedAt time.Time  `json:"created_at"`
}
