package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addTagRequest struct {
	Name string `json:"name"`
}

// ListTags handles GET /api/tags. Supports ?q= slug-prefix filtering plus
// ?page= and ?limit=.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	page := parsePagination(r)
	tags, total, err := s.tags.ListPaged(r.Context(), r.URL.Query().Get("q"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{
		Items: tags,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// AddTripTag handles POST /api/trips/{id}/tags.
func (s *Server) AddTripTag(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}
	var req addTagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	tag, err := s.tags.AddToTrip(r.Context(), tripID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// ListTripTags handles GET /api/trips/{id}/tags.
func (s *Server) ListTripTags(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}
	tags, err := s.tags.ListByTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// RemoveTripTag handles DELETE /api/trips/{id}/tags/{slug}.
func (s *Server) RemoveTripTag(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}
	if err := s.tags.RemoveFromTrip(r.Context(), tripID, chi.URLParam(r, "slug")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
