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

// TripFilter narrows List results. Zero-value fields are ignored.
type TripFilter struct {
	Status    *domain.TripStatus
	VehicleID *uuid.UUID
	DriverID  *uuid.UUID
	// Search matches origin or destination, case-insensitive substring.
	Search string
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns trips matching the filter, newest first.
	List(ctx context.Context, filter TripFilter) ([]domain.Trip, error)

	// UpdateFields patches the editable fields of a trip (origin, destination,
	// cargo weight, estimated fuel cost, revenue) without touching its status.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	UpdateFields(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// UpdateStatus applies a planned status write as a compare-and-swap:
	// the UPDATE only matches when the row still holds write.From. Completion
	// fields on the write are applied in the same statement. Returns
	// domain.ErrConflict when the row exists but its status changed since the
	// caller's read, which means a concurrent transition won the race.
	UpdateStatus(ctx context.Context, id uuid.UUID, write domain.TripWrite) (domain.Trip, error)

	// HasActiveByVehicle reports whether any non-terminal trip (DRAFT or
	// DISPATCHED) references the vehicle.
	HasActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error)

	// HasActiveByDriver reports whether any non-terminal trip references the driver.
	HasActiveByDriver(ctx context.Context, driverID uuid.UUID) (bool, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, vehicle_id, driver_id, origin, destination, cargo_weight,
	       estimated_fuel_cost, actual_fuel_cost, distance, revenue, status,
	       created_at, updated_at, completed_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (vehicle_id, driver_id, origin, destination, cargo_weight,
		                   estimated_fuel_cost, revenue, status)
		VALUES (@vehicle_id, @driver_id, @origin, @destination, @cargo_weight,
		        @estimated_fuel_cost, @revenue, @status)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"vehicle_id":          trip.VehicleID,
		"driver_id":           trip.DriverID,
		"origin":              trip.Origin,
		"destination":         trip.Destination,
		"cargo_weight":        trip.CargoWeight,
		"estimated_fuel_cost": trip.EstimatedFuelCost,
		"revenue":             trip.Revenue,
		"status":              domain.TripDraft,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context, filter TripFilter) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE 1=1`
	args := pgx.NamedArgs{}

	if filter.Status != nil {
		q += ` AND status = @status`
		args["status"] = *filter.Status
	}
	if filter.VehicleID != nil {
		q += ` AND vehicle_id = @vehicle_id`
		args["vehicle_id"] = *filter.VehicleID
	}
	if filter.DriverID != nil {
		q += ` AND driver_id = @driver_id`
		args["driver_id"] = *filter.DriverID
	}
	if filter.Search != "" {
		q += ` AND (origin ILIKE @search OR destination ILIKE @search)`
		args["search"] = "%" + filter.Search + "%"
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, nil
}

func (r *pgTripRepo) UpdateFields(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET origin              = @origin,
		    destination         = @destination,
		    cargo_weight        = @cargo_weight,
		    estimated_fuel_cost = @estimated_fuel_cost,
		    revenue             = @revenue,
		    updated_at          = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":                  trip.ID,
		"origin":              trip.Origin,
		"destination":         trip.Destination,
		"cargo_weight":        trip.CargoWeight,
		"estimated_fuel_cost": trip.EstimatedFuelCost,
		"revenue":             trip.Revenue,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateFields: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) UpdateStatus(ctx context.Context, id uuid.UUID, write domain.TripWrite) (domain.Trip, error) {
	// The status predicate makes this a compare-and-swap: if a concurrent
	// transition already moved the trip, zero rows match and the caller gets
	// ErrConflict instead of a silent overwrite.
	const q = `
		UPDATE trips
		SET status           = @to_status,
		    completed_at     = COALESCE(@completed_at, completed_at),
		    distance         = COALESCE(@distance, distance),
		    actual_fuel_cost = COALESCE(@actual_fuel_cost, actual_fuel_cost),
		    updated_at       = now()
		WHERE id = @id AND status = @from_status
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":               id,
		"from_status":      write.From,
		"to_status":        write.To,
		"completed_at":     write.CompletedAt,
		"distance":         write.Distance,
		"actual_fuel_cost": write.ActualFuelCost,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateStatus: %w", domain.ErrConflict)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) HasActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM trips
			WHERE vehicle_id = @vehicle_id AND status IN ('DRAFT', 'DISPATCHED')
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.TripRepo.HasActiveByVehicle: %w", err)
	}
	return exists, nil
}

func (r *pgTripRepo) HasActiveByDriver(ctx context.Context, driverID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM trips
			WHERE driver_id = @driver_id AND status IN ('DRAFT', 'DISPATCHED')
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"driver_id": driverID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.TripRepo.HasActiveByDriver: %w", err)
	}
	return exists, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and nullable completed_at conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t           domain.Trip
		id          pgtype.UUID
		vehicleID   pgtype.UUID
		driverID    pgtype.UUID
		completedAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &vehicleID, &driverID, &t.Origin, &t.Destination, &t.CargoWeight,
		&t.EstimatedFuelCost, &t.ActualFuelCost, &t.Distance, &t.Revenue, &t.Status,
		&t.CreatedAt, &t.UpdatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.VehicleID = uuid.UUID(vehicleID.Bytes)
	t.DriverID = uuid.UUID(driverID.Bytes)
	if completedAt.Valid {
		ca := completedAt.Time
		t.CompletedAt = &ca
	}

	return t, nil
}
