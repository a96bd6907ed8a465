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

// FuelRepo defines the persistence operations for fuel logs.
// Fuel logs are plain records with no cross-entity invariants.
type FuelRepo interface {
	// Create inserts a new fuel log and returns the persisted record.
	Create(ctx context.Context, log domain.FuelLog) (domain.FuelLog, error)

	// List returns all fuel logs, most recent first.
	List(ctx context.Context) ([]domain.FuelLog, error)
}

type pgFuelRepo struct {
	db db
}

// NewFuelRepo constructs a FuelRepo backed by the provided db connection.
func NewFuelRepo(db db) FuelRepo {
	return &pgFuelRepo{db: db}
}

const fuelColumns = `id, trip_id, vehicle_id, driver_id, liters, cost, distance, date, created_at`

func (r *pgFuelRepo) Create(ctx context.Context, log domain.FuelLog) (domain.FuelLog, error) {
	const q = `
		INSERT INTO fuel_logs (trip_id, vehicle_id, driver_id, liters, cost, distance, date)
		VALUES (@trip_id, @vehicle_id, @driver_id, @liters, @cost, @distance, @date)
		RETURNING ` + fuelColumns

	args := pgx.NamedArgs{
		"trip_id":    log.TripID,
		"vehicle_id": log.VehicleID,
		"driver_id":  log.DriverID,
		"liters":     log.Liters,
		"cost":       log.Cost,
		"distance":   log.Distance,
		"date":       log.Date,
	}

	result, err := scanFuelLog(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.FuelLog{}, fmt.Errorf("repo.FuelRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgFuelRepo) List(ctx context.Context) ([]domain.FuelLog, error) {
	const q = `SELECT ` + fuelColumns + ` FROM fuel_logs ORDER BY date DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.FuelRepo.List: %w", err)
	}
	defer rows.Close()

	var logs []domain.FuelLog
	for rows.Next() {
		l, err := scanFuelLog(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.FuelRepo.List: scan: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FuelRepo.List: rows: %w", err)
	}

	return logs, nil
}

func scanFuelLog(s scanner) (domain.FuelLog, error) {
	var (
		l         domain.FuelLog
		id        pgtype.UUID
		tripID    pgtype.UUID
		vehicleID pgtype.UUID
		driverID  pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &vehicleID, &driverID, &l.Liters, &l.Cost, &l.Distance, &l.Date, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FuelLog{}, domain.ErrNotFound
		}
		return domain.FuelLog{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.VehicleID = uuid.UUID(vehicleID.Bytes)
	l.TripID = optionalUUID(tripID)
	l.DriverID = optionalUUID(driverID)
	return l, nil
}

// optionalUUID converts a nullable pgtype.UUID into a *uuid.UUID.
func optionalUUID(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}
