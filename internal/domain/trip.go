// Package domain contains the core data types and the pure eligibility and
// transition-planning logic for the FleetFlow backend. This package has no
// dependency on the database or HTTP layers and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle status of a trip.
// COMPLETED and CANCELLED are terminal: no further transition is possible.
type TripStatus string

const (
	TripDraft      TripStatus = "DRAFT"
	TripDispatched TripStatus = "DISPATCHED"
	TripCompleted  TripStatus = "COMPLETED"
	TripCancelled  TripStatus = "CANCELLED"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripDraft, TripDispatched, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s TripStatus) Terminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// allowedTransitions encodes the trip state flow as data.
// A status absent from the map has no outgoing transitions.
var allowedTransitions = map[TripStatus][]TripStatus{
	TripDraft:      {TripDispatched, TripCancelled},
	TripDispatched: {TripCompleted, TripCancelled},
}

// CanTransition reports whether the trip state machine permits moving from
// one status to another. It checks the shape of the state machine only; the
// eligibility guards check resource state on top of this.
func CanTransition(from, to TripStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Trip is a single dispatch assignment of one vehicle and one driver between
// an origin and a destination. The vehicle and driver references are immutable
// once set; the lifecycle status is owned exclusively by the trip service.
type Trip struct {
	ID                uuid.UUID  `json:"id"`
	VehicleID         uuid.UUID  `json:"vehicle_id"`
	DriverID          uuid.UUID  `json:"driver_id"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	CargoWeight       float64    `json:"cargo_weight"` // kg, validated against the vehicle's max capacity at creation
	EstimatedFuelCost float64    `json:"estimated_fuel_cost"`
	ActualFuelCost    float64    `json:"actual_fuel_cost"`
	Distance          float64    `json:"distance"` // km
	Revenue           float64    `json:"revenue"`
	Status            TripStatus `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"` // nil until the trip is completed
}
