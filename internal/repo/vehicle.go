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

// VehicleFilter narrows ListPaged results. Zero-value fields are ignored.
type VehicleFilter struct {
	Type   string
	Status *domain.VehicleStatus
	// Search matches name, model, or license plate, case-insensitive substring.
	Search string
}

// VehicleRepo defines the persistence operations for Vehicles.
type VehicleRepo interface {
	// Create inserts a new vehicle and returns the persisted record.
	// Returns domain.ErrConflict if the license plate is already registered.
	Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)

	// GetByID retrieves a single vehicle by its UUID primary key.
	// Returns domain.ErrNotFound if no vehicle with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// ListPaged returns vehicles matching the filter, newest first, plus the
	// total match count for pagination.
	ListPaged(ctx context.Context, filter VehicleFilter, page domain.PaginationParams) ([]domain.Vehicle, int64, error)

	// Update overwrites the descriptive fields of a vehicle (everything except
	// status and odometer, which are owned by the lifecycle and maintenance flows).
	// Returns domain.ErrNotFound if no vehicle with that ID exists.
	Update(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)

	// SetStatus applies a status write as a compare-and-swap: the UPDATE only
	// matches while the row still holds the expected prior status. A non-nil
	// odometer is written in the same statement (trip completion). Returns
	// domain.ErrConflict when the row's status changed since the caller's read.
	SetStatus(ctx context.Context, id uuid.UUID, from, to domain.VehicleStatus, odometer *float64) error

	// Delete removes a vehicle by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgVehicleRepo is the Postgres implementation of VehicleRepo.
type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

const vehicleColumns = `id, name, model, license_plate, type, max_capacity, odometer,
	       initial_odometer, acquisition_cost, status, region, created_at, updated_at`

func (r *pgVehicleRepo) Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		INSERT INTO vehicles (name, model, license_plate, type, max_capacity, odometer,
		                      initial_odometer, acquisition_cost, status, region)
		VALUES (@name, @model, @license_plate, @type, @max_capacity, @odometer,
		        @odometer, @acquisition_cost, @status, @region)
		RETURNING ` + vehicleColumns

	args := pgx.NamedArgs{
		"name":             vehicle.Name,
		"model":            vehicle.Model,
		"license_plate":    vehicle.LicensePlate,
		"type":             vehicle.Type,
		"max_capacity":     vehicle.MaxCapacity,
		"odometer":         vehicle.Odometer,
		"acquisition_cost": vehicle.AcquisitionCost,
		"status":           domain.VehicleAvailable,
		"region":           vehicle.Region,
	}

	result, err := scanVehicle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: license plate already registered: %w", domain.ErrConflict)
		}
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = @id`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) ListPaged(ctx context.Context, filter VehicleFilter, page domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	where := ` WHERE 1=1`
	args := pgx.NamedArgs{}

	if filter.Type != "" {
		where += ` AND type = @type`
		args["type"] = filter.Type
	}
	if filter.Status != nil {
		where += ` AND status = @status`
		args["status"] = *filter.Status
	}
	if filter.Search != "" {
		where += ` AND (name ILIKE @search OR model ILIKE @search OR license_plate ILIKE @search)`
		args["search"] = "%" + filter.Search + "%"
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM vehicles`+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + vehicleColumns + ` FROM vehicles` + where +
		` ORDER BY created_at DESC LIMIT @limit OFFSET @offset`
	args["limit"] = page.Limit
	args["offset"] = page.Offset()

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: rows: %w", err)
	}

	return vehicles, total, nil
}

func (r *pgVehicleRepo) Update(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		UPDATE vehicles
		SET name             = @name,
		    model            = @model,
		    type             = @type,
		    max_capacity     = @max_capacity,
		    acquisition_cost = @acquisition_cost,
		    region           = @region,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + vehicleColumns

	args := pgx.NamedArgs{
		"id":               vehicle.ID,
		"name":             vehicle.Name,
		"model":            vehicle.Model,
		"type":             vehicle.Type,
		"max_capacity":     vehicle.MaxCapacity,
		"acquisition_cost": vehicle.AcquisitionCost,
		"region":           vehicle.Region,
	}

	result, err := scanVehicle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.VehicleStatus, odometer *float64) error {
	const q = `
		UPDATE vehicles
		SET status     = @to_status,
		    odometer   = COALESCE(@odometer, odometer),
		    updated_at = now()
		WHERE id = @id AND status = @from_status`

	args := pgx.NamedArgs{
		"id":          id,
		"from_status": from,
		"to_status":   to,
		"odometer":    odometer,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.SetStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// The vehicle either vanished or its status moved under us —
		// within a transition transaction only the latter is possible.
		return fmt.Errorf("repo.VehicleRepo.SetStatus: vehicle no longer %s: %w", from, domain.ErrConflict)
	}
	return nil
}

func (r *pgVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM vehicles WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanVehicle maps a single database row into a domain.Vehicle.
func scanVehicle(s scanner) (domain.Vehicle, error) {
	var (
		v  domain.Vehicle
		id pgtype.UUID
	)

	err := s.Scan(&id, &v.Name, &v.Model, &v.LicensePlate, &v.Type, &v.MaxCapacity,
		&v.Odometer, &v.InitialOdometer, &v.AcquisitionCost, &v.Status, &v.Region,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, domain.ErrNotFound
		}
		return domain.Vehicle{}, err
	}

	v.ID = uuid.UUID(id.Bytes)
	return v, nil
}
