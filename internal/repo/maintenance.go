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

// MaintenanceRepo defines the persistence operations for maintenance logs.
type MaintenanceRepo interface {
	// Create inserts a new maintenance log and returns the persisted record.
	Create(ctx context.Context, log domain.MaintenanceLog) (domain.MaintenanceLog, error)

	// GetByID retrieves a single log by its UUID primary key.
	// Returns domain.ErrNotFound if no log with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error)

	// List returns all maintenance logs, most recent service date first.
	List(ctx context.Context) ([]domain.MaintenanceLog, error)

	// SetStatus moves a log between IN_PROGRESS and COMPLETED as a
	// compare-and-swap on the expected prior status.
	// Returns domain.ErrConflict when the log is not in the expected status.
	SetStatus(ctx context.Context, id uuid.UUID, from, to domain.MaintenanceStatus) (domain.MaintenanceLog, error)

	// HasOpenByVehicle reports whether any IN_PROGRESS log exists for the vehicle.
	HasOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error)
}

// pgMaintenanceRepo is the Postgres implementation of MaintenanceRepo.
type pgMaintenanceRepo struct {
	db db
}

// NewMaintenanceRepo constructs a MaintenanceRepo backed by the provided db connection.
func NewMaintenanceRepo(db db) MaintenanceRepo {
	return &pgMaintenanceRepo{db: db}
}

const maintenanceColumns = `id, vehicle_id, service_type, cost, date, notes, status, created_at`

func (r *pgMaintenanceRepo) Create(ctx context.Context, log domain.MaintenanceLog) (domain.MaintenanceLog, error) {
	const q = `
		INSERT INTO maintenance_logs (vehicle_id, service_type, cost, date, notes, status)
		VALUES (@vehicle_id, @service_type, @cost, @date, @notes, @status)
		RETURNING ` + maintenanceColumns

	args := pgx.NamedArgs{
		"vehicle_id":   log.VehicleID,
		"service_type": log.ServiceType,
		"cost":         log.Cost,
		"date":         log.Date,
		"notes":        log.Notes,
		"status":       domain.MaintenanceInProgress,
	}

	result, err := scanMaintenanceLog(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.MaintenanceLog{}, fmt.Errorf("repo.MaintenanceRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgMaintenanceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error) {
	const q = `SELECT ` + maintenanceColumns + ` FROM maintenance_logs WHERE id = @id`

	result, err := scanMaintenanceLog(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.MaintenanceLog{}, fmt.Errorf("repo.MaintenanceRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgMaintenanceRepo) List(ctx context.Context) ([]domain.MaintenanceLog, error) {
	const q = `SELECT ` + maintenanceColumns + ` FROM maintenance_logs ORDER BY date DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.MaintenanceRepo.List: %w", err)
	}
	defer rows.Close()

	var logs []domain.MaintenanceLog
	for rows.Next() {
		l, err := scanMaintenanceLog(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MaintenanceRepo.List: scan: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MaintenanceRepo.List: rows: %w", err)
	}

	return logs, nil
}

func (r *pgMaintenanceRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.MaintenanceStatus) (domain.MaintenanceLog, error) {
	const q = `
		UPDATE maintenance_logs
		SET status = @to_status
		WHERE id = @id AND status = @from_status
		RETURNING ` + maintenanceColumns

	args := pgx.NamedArgs{
		"id":          id,
		"from_status": from,
		"to_status":   to,
	}

	result, err := scanMaintenanceLog(r.db.QueryRow(ctx, q, args))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.MaintenanceLog{}, fmt.Errorf("repo.MaintenanceRepo.SetStatus: log not %s: %w", from, domain.ErrConflict)
	}
	if err != nil {
		return domain.MaintenanceLog{}, fmt.Errorf("repo.MaintenanceRepo.SetStatus: %w", err)
	}
	return result, nil
}

func (r *pgMaintenanceRepo) HasOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM maintenance_logs
			WHERE vehicle_id = @vehicle_id AND status = 'IN_PROGRESS'
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.MaintenanceRepo.HasOpenByVehicle: %w", err)
	}
	return exists, nil
}

// scanMaintenanceLog maps a single database row into a domain.MaintenanceLog.
func scanMaintenanceLog(s scanner) (domain.MaintenanceLog, error) {
	var (
		l         domain.MaintenanceLog
		id        pgtype.UUID
		vehicleID pgtype.UUID
	)

	err := s.Scan(&id, &vehicleID, &l.ServiceType, &l.Cost, &l.Date, &l.Notes, &l.Status, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MaintenanceLog{}, domain.ErrNotFound
		}
		return domain.MaintenanceLog{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.VehicleID = uuid.UUID(vehicleID.Bytes)
	return l, nil
}
