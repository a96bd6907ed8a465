package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
)

var (
	errInvalidTripID = errors.New("invalid trip id")
	errInvalidStopID = errors.New("invalid stop id")
)

type stopRequest struct {
	Seq        int        `json:"seq"`
	Name       string     `json:"name"`
	Location   string     `json:"location"`
	ArrivedAt  *time.Time `json:"arrived_at"`
	DepartedAt *time.Time `json:"departed_at"`
	Notes      string     `json:"notes"`
}

// CreateStop handles POST /api/trips/{id}/stops.
func (s *Server) CreateStop(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}
	var req stopRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	stop, err := s.stops.Create(r.Context(), domain.Stop{
		TripID:     tripID,
		Seq:        req.Seq,
		Name:       req.Name,
		Location:   req.Location,
		ArrivedAt:  req.ArrivedAt,
		DepartedAt: req.DepartedAt,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stop)
}

// ListStops handles GET /api/trips/{id}/stops.
func (s *Server) ListStops(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}
	stops, err := s.stops.ListByTripID(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stops)
}

// GetStop handles GET /api/trips/{id}/stops/{stopID}.
func (s *Server) GetStop(w http.ResponseWriter, r *http.Request) {
	tripID, stopID, err := stopPathIDs(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	stop, err := s.stops.GetByID(r.Context(), tripID, stopID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stop)
}

// UpdateStop handles PUT /api/trips/{id}/stops/{stopID}.
func (s *Server) UpdateStop(w http.ResponseWriter, r *http.Request) {
	tripID, stopID, err := stopPathIDs(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req stopRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	stop, err := s.stops.Update(r.Context(), domain.Stop{
		ID:         stopID,
		TripID:     tripID,
		Seq:        req.Seq,
		Name:       req.Name,
		Location:   req.Location,
		ArrivedAt:  req.ArrivedAt,
		DepartedAt: req.DepartedAt,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stop)
}

// DeleteStop handles DELETE /api/trips/{id}/stops/{stopID}.
func (s *Server) DeleteStop(w http.ResponseWriter, r *http.Request) {
	tripID, stopID, err := stopPathIDs(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.stops.Delete(r.Context(), tripID, stopID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// stopPathIDs parses the {id} (trip) and {stopID} chi URL parameters.
func stopPathIDs(r *http.Request) (tripID, stopID uuid.UUID, err error) {
	tripID, err = pathID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, errInvalidTripID
	}
	stopID, err = uuid.Parse(chi.URLParam(r, "stopID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errInvalidStopID
	}
	return tripID, stopID, nil
}
