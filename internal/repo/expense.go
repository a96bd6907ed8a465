package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fleetflow/backend/internal/domain"
)

// ExpenseRepo defines the persistence operations for expenses.
// Expenses are plain records with no cross-entity invariants.
type ExpenseRepo interface {
	// Create inserts a new expense and returns the persisted record.
	Create(ctx context.Context, expense domain.Expense) (domain.Expense, error)

	// List returns all expenses, most recent first.
	List(ctx context.Context) ([]domain.Expense, error)
}

type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, trip_id, vehicle_id, driver_id, category, amount, description, date, created_at`

func (r *pgExpenseRepo) Create(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	const q = `
		INSERT INTO expenses (trip_id, vehicle_id, driver_id, category, amount, description, date)
		VALUES (@trip_id, @vehicle_id, @driver_id, @category, @amount, @description, @date)
		RETURNING ` + expenseColumns

	args := pgx.NamedArgs{
		"trip_id":     expense.TripID,
		"vehicle_id":  expense.VehicleID,
		"driver_id":   expense.DriverID,
		"category":    expense.Category,
		"amount":      expense.Amount,
		"description": expense.Description,
		"date":        expense.Date,
	}

	result, err := scanExpense(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) List(ctx context.Context) ([]domain.Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses ORDER BY date DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.List: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExpenseRepo.List: scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.List: rows: %w", err)
	}

	return expenses, nil
}

func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e         domain.Expense
		id        pgtype.UUID
		tripID    pgtype.UUID
		vehicleID pgtype.UUID
		driverID  pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &vehicleID, &driverID, &e.Category, &e.Amount, &e.Description, &e.Date, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TripID = optionalUUID(tripID)
	e.VehicleID = optionalUUID(vehicleID)
	e.DriverID = optionalUUID(driverID)
	return e, nil
}
