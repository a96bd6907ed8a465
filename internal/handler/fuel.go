package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
)

// createFuelLogRequest is the JSON body for POST /api/fuel.
type createFuelLogRequest struct {
	VehicleID uuid.UUID  `json:"vehicle_id"`
	TripID    *uuid.UUID `json:"trip_id"`
	DriverID  *uuid.UUID `json:"driver_id"`
	Liters    float64    `json:"liters"`
	Cost      float64    `json:"cost"`
	Distance  float64    `json:"distance"`
	Date      time.Time  `json:"date"`
}

// CreateFuelLog handles POST /api/fuel.
func (s *Server) CreateFuelLog(w http.ResponseWriter, r *http.Request) {
	var req createFuelLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	log, err := s.fuel.Create(r.Context(), domain.FuelLog{
		VehicleID: req.VehicleID,
		TripID:    req.TripID,
		DriverID:  req.DriverID,
		Liters:    req.Liters,
		Cost:      req.Cost,
		Distance:  req.Distance,
		Date:      req.Date,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

// ListFuelLogs handles GET /api/fuel.
func (s *Server) ListFuelLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.fuel.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
