package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/middleware"
	"github.com/fleetflow/backend/internal/service"
)

// registerRequest is the JSON body for POST /api/auth/register.
type registerRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// loginRequest is the JSON body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is returned by register and login.
type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Register handles POST /api/auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	user, token, err := s.auth.Register(r.Context(), service.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// Login handles POST /api/auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// Me handles GET /api/auth/me. It resolves the authenticated subject from
// the verified token claims.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		writeError(w, domain.ErrNotFound)
		return
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		writeError(w, domain.ErrNotFound)
		return
	}

	user, err := s.auth.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
