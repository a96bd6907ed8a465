package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
	"github.com/fleetflow/backend/internal/service"
)

// createTripRequest is the JSON body for POST /api/trips.
type createTripRequest struct {
	VehicleID         uuid.UUID `json:"vehicle_id"`
	DriverID          uuid.UUID `json:"driver_id"`
	Origin            string    `json:"origin"`
	Destination       string    `json:"destination"`
	CargoWeight       float64   `json:"cargo_weight"`
	EstimatedFuelCost float64   `json:"estimated_fuel_cost"`
	Revenue           float64   `json:"revenue"`
}

// patchTripRequest is the JSON body for PATCH /api/trips/{id}.
// All fields are optional; absent fields stay unchanged.
type patchTripRequest struct {
	Origin            *string  `json:"origin"`
	Destination       *string  `json:"destination"`
	CargoWeight       *float64 `json:"cargo_weight"`
	EstimatedFuelCost *float64 `json:"estimated_fuel_cost"`
	Revenue           *float64 `json:"revenue"`
}

// completeTripRequest is the JSON body for POST /api/trips/{id}/complete.
// The body may be empty; every field has a sensible default.
type completeTripRequest struct {
	FinalOdometer  *float64 `json:"final_odometer"`
	Distance       *float64 `json:"distance"`
	ActualFuelCost *float64 `json:"actual_fuel_cost"`
}

// CreateTrip handles POST /api/trips. The trip starts in DRAFT.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	trip, err := s.trips.Create(r.Context(), service.CreateTripCommand{
		VehicleID:         req.VehicleID,
		DriverID:          req.DriverID,
		Origin:            req.Origin,
		Destination:       req.Destination,
		CargoWeight:       req.CargoWeight,
		EstimatedFuelCost: req.EstimatedFuelCost,
		Revenue:           req.Revenue,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// ListTrips handles GET /api/trips. Supports ?status=, ?vehicle_id=,
// ?driver_id=, and ?q= (matches origin and destination).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	var filter repo.TripFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TripStatus(raw)
		if !status.Valid() {
			writeBadRequest(w, "unknown trip status: "+raw)
			return
		}
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("vehicle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeBadRequest(w, "invalid vehicle_id")
			return
		}
		filter.VehicleID = &id
	}
	if raw := r.URL.Query().Get("driver_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeBadRequest(w, "invalid driver_id")
			return
		}
		filter.DriverID = &id
	}
	filter.Search = r.URL.Query().Get("q")

	trips, err := s.trips.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// GetTrip handles GET /api/trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// PatchTrip handles PATCH /api/trips/{id}. Terminal trips cannot be edited.
func (s *Server) PatchTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}
	var req patchTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	trip, err := s.trips.Patch(r.Context(), id, service.PatchTripCommand{
		Origin:            req.Origin,
		Destination:       req.Destination,
		CargoWeight:       req.CargoWeight,
		EstimatedFuelCost: req.EstimatedFuelCost,
		Revenue:           req.Revenue,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DispatchTrip handles POST /api/trips/{id}/dispatch.
func (s *Server) DispatchTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}
	trip, err := s.trips.Dispatch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// CompleteTrip handles POST /api/trips/{id}/complete.
func (s *Server) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}
	var req completeTripRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, err.Error())
		return
	}

	trip, err := s.trips.Complete(r.Context(), id, domain.CompleteOverrides{
		FinalOdometer:  req.FinalOdometer,
		Distance:       req.Distance,
		ActualFuelCost: req.ActualFuelCost,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// CancelTrip handles POST /api/trips/{id}/cancel.
func (s *Server) CancelTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}
	trip, err := s.trips.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}
