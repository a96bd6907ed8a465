package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// ExpenseService records operating expenses, optionally tied to a trip,
// vehicle, or driver.
type ExpenseService struct {
	expenses repo.ExpenseRepo
}

// NewExpenseService constructs an ExpenseService backed by the provided repo.
func NewExpenseService(expenses repo.ExpenseRepo) *ExpenseService {
	return &ExpenseService{expenses: expenses}
}

// Create validates and persists a new expense. An empty category defaults
// to OTHER.
func (s *ExpenseService) Create(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	if expense.Amount < 0 {
		return domain.Expense{}, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	if strings.TrimSpace(expense.Category) == "" {
		expense.Category = "OTHER"
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now().UTC()
	}

	result, err := s.expenses.Create(ctx, expense)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	return result, nil
}

// List returns all expenses, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExpenseService) List(ctx context.Context) ([]domain.Expense, error) {
	expenses, err := s.expenses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}
