package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaintenanceStatus is the status of a single maintenance log entry.
type MaintenanceStatus string

const (
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
)

// MaintenanceLog records one service visit for a vehicle.
// Opening a log moves the vehicle to IN_SHOP; completing it moves the vehicle
// back to AVAILABLE. A log can never be opened against an ON_TRIP vehicle.
type MaintenanceLog struct {
	ID          uuid.UUID         `json:"id"`
	VehicleID   uuid.UUID         `json:"vehicle_id"`
	ServiceType string            `json:"service_type"`
	Cost        float64           `json:"cost"`
	Date        time.Time         `json:"date"`
	Notes       string            `json:"notes,omitempty"`
	Status      MaintenanceStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}
