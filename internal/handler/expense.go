package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
)

// createExpenseRequest is the JSON body for POST /api/expenses.
type createExpenseRequest struct {
	TripID      *uuid.UUID `json:"trip_id"`
	VehicleID   *uuid.UUID `json:"vehicle_id"`
	DriverID    *uuid.UUID `json:"driver_id"`
	Category    string     `json:"category"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
}

// CreateExpense handles POST /api/expenses.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	expense, err := s.expenses.Create(r.Context(), domain.Expense{
		TripID:      req.TripID,
		VehicleID:   req.VehicleID,
		DriverID:    req.DriverID,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

// ListExpenses handles GET /api/expenses.
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}
