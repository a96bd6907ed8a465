package handler

import (
	"net/http"
	"time"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// driverRequest is the JSON body for POST and PUT /api/drivers.
// Status moves through the lifecycle and the status endpoint, never here.
type driverRequest struct {
	Name            string    `json:"name"`
	LicenseNumber   string    `json:"license_number"`
	LicenseExpiry   time.Time `json:"license_expiry"`
	LicenseCategory string    `json:"license_category"`
}

// driverStatusRequest is the JSON body for PUT /api/drivers/{id}/status.
type driverStatusRequest struct {
	Status domain.DriverStatus `json:"status"`
}

// CreateDriver handles POST /api/drivers.
func (s *Server) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req driverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	driver, err := s.drivers.Create(r.Context(), domain.Driver{
		Name:            req.Name,
		LicenseNumber:   req.LicenseNumber,
		LicenseExpiry:   req.LicenseExpiry,
		LicenseCategory: req.LicenseCategory,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, driver)
}

// ListDrivers handles GET /api/drivers. Supports ?status= and ?q=
// (matches name and license number).
func (s *Server) ListDrivers(w http.ResponseWriter, r *http.Request) {
	var filter repo.DriverFilter
	filter.Search = r.URL.Query().Get("q")
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.DriverStatus(raw)
		if !status.Valid() {
			writeBadRequest(w, "unknown driver status: "+raw)
			return
		}
		filter.Status = &status
	}

	drivers, err := s.drivers.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drivers)
}

// GetDriver handles GET /api/drivers/{id}.
func (s *Server) GetDriver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid driver id")
		return
	}
	driver, err := s.drivers.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

// UpdateDriver handles PUT /api/drivers/{id}.
func (s *Server) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid driver id")
		return
	}
	var req driverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	driver, err := s.drivers.Update(r.Context(), domain.Driver{
		ID:              id,
		Name:            req.Name,
		LicenseNumber:   req.LicenseNumber,
		LicenseExpiry:   req.LicenseExpiry,
		LicenseCategory: req.LicenseCategory,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

// SetDriverStatus handles PUT /api/drivers/{id}/status.
func (s *Server) SetDriverStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid driver id")
		return
	}
	var req driverStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	driver, err := s.drivers.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

// DeleteDriver handles DELETE /api/drivers/{id}.
func (s *Server) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid driver id")
		return
	}
	if err := s.drivers.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
