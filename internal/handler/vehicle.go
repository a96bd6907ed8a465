package handler

import (
	"net/http"
	"strconv"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// vehicleRequest is the JSON body for POST and PUT /api/vehicles.
// Status is absent on purpose: it moves through the trip lifecycle,
// maintenance, and the status endpoint, never through a plain update.
type vehicleRequest struct {
	Name            string  `json:"name"`
	Model           string  `json:"model"`
	LicensePlate    string  `json:"license_plate"`
	Type            string  `json:"type"`
	MaxCapacity     float64 `json:"max_capacity"`
	Odometer        float64 `json:"odometer"`
	AcquisitionCost float64 `json:"acquisition_cost"`
	Region          string  `json:"region"`
}

// vehicleStatusRequest is the JSON body for PUT /api/vehicles/{id}/status.
type vehicleStatusRequest struct {
	Status domain.VehicleStatus `json:"status"`
}

// pagedResponse wraps a list payload with pagination metadata.
type pagedResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// CreateVehicle handles POST /api/vehicles.
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	vehicle, err := s.vehicles.Create(r.Context(), domain.Vehicle{
		Name:            req.Name,
		Model:           req.Model,
		LicensePlate:    req.LicensePlate,
		Type:            req.Type,
		MaxCapacity:     req.MaxCapacity,
		Odometer:        req.Odometer,
		AcquisitionCost: req.AcquisitionCost,
		Region:          req.Region,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

// ListVehicles handles GET /api/vehicles. Supports ?type=, ?status=,
// ?q= (matches name and license plate), ?page=, and ?limit=.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	var filter repo.VehicleFilter
	filter.Type = r.URL.Query().Get("type")
	filter.Search = r.URL.Query().Get("q")
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.VehicleStatus(raw)
		if !status.Valid() {
			writeBadRequest(w, "unknown vehicle status: "+raw)
			return
		}
		filter.Status = &status
	}

	page := parsePagination(r)
	vehicles, total, err := s.vehicles.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{
		Items: vehicles,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// GetVehicle handles GET /api/vehicles/{id}.
func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid vehicle id")
		return
	}
	vehicle, err := s.vehicles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// UpdateVehicle handles PUT /api/vehicles/{id}.
func (s *Server) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid vehicle id")
		return
	}
	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	vehicle, err := s.vehicles.Update(r.Context(), domain.Vehicle{
		ID:              id,
		Name:            req.Name,
		Model:           req.Model,
		LicensePlate:    req.LicensePlate,
		Type:            req.Type,
		MaxCapacity:     req.MaxCapacity,
		Odometer:        req.Odometer,
		AcquisitionCost: req.AcquisitionCost,
		Region:          req.Region,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// SetVehicleStatus handles PUT /api/vehicles/{id}/status.
func (s *Server) SetVehicleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid vehicle id")
		return
	}
	var req vehicleStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	vehicle, err := s.vehicles.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// DeleteVehicle handles DELETE /api/vehicles/{id}.
func (s *Server) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid vehicle id")
		return
	}
	if err := s.vehicles.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parsePagination reads ?page= and ?limit= with the domain defaults.
func parsePagination(r *http.Request) domain.PaginationParams {
	var page, limit *int
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = &n
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = &n
		}
	}
	return domain.NewPaginationParams(page, limit)
}
