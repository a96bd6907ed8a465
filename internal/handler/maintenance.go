package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/service"
)

// createMaintenanceRequest is the JSON body for POST /api/maintenance.
type createMaintenanceRequest struct {
	VehicleID   uuid.UUID `json:"vehicle_id"`
	ServiceType string    `json:"service_type"`
	Cost        float64   `json:"cost"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes"`
}

// CreateMaintenance handles POST /api/maintenance. Opening a log moves the
// vehicle to IN_SHOP atomically.
func (s *Server) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	var req createMaintenanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	log, err := s.maintenance.Create(r.Context(), service.CreateMaintenanceCommand{
		VehicleID:   req.VehicleID,
		ServiceType: req.ServiceType,
		Cost:        req.Cost,
		Date:        req.Date,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

// ListMaintenance handles GET /api/maintenance.
func (s *Server) ListMaintenance(w http.ResponseWriter, r *http.Request) {
	logs, err := s.maintenance.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// GetMaintenance handles GET /api/maintenance/{id}.
func (s *Server) GetMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid maintenance log id")
		return
	}
	log, err := s.maintenance.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// CompleteMaintenance handles POST /api/maintenance/{id}/complete. Closing
// the last open log for a vehicle releases it back to AVAILABLE.
func (s *Server) CompleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid maintenance log id")
		return
	}
	log, err := s.maintenance.Complete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}
