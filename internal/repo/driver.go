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

// DriverFilter narrows List results. Zero-value fields are ignored.
type DriverFilter struct {
	Status *domain.DriverStatus
	// Search matches name or license number, case-insensitive substring.
	Search string
}

// DriverRepo defines the persistence operations for Drivers.
type DriverRepo interface {
	// Create inserts a new driver and returns the persisted record.
	// Returns domain.ErrConflict if the license number is already registered.
	Create(ctx context.Context, driver domain.Driver) (domain.Driver, error)

	// GetByID retrieves a single driver by its UUID primary key.
	// Returns domain.ErrNotFound if no driver with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error)

	// List returns drivers matching the filter, newest first.
	List(ctx context.Context, filter DriverFilter) ([]domain.Driver, error)

	// Update overwrites the descriptive fields of a driver (everything except
	// status, which is owned by the lifecycle and compliance flows).
	// Returns domain.ErrNotFound if no driver with that ID exists.
	Update(ctx context.Context, driver domain.Driver) (domain.Driver, error)

	// SetStatus applies a status write as a compare-and-swap on the expected
	// prior status. Returns domain.ErrConflict when the row's status changed
	// since the caller's read.
	SetStatus(ctx context.Context, id uuid.UUID, from, to domain.DriverStatus) error

	// Delete removes a driver by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgDriverRepo is the Postgres implementation of DriverRepo.
type pgDriverRepo struct {
	db db
}

// NewDriverRepo constructs a DriverRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDriverRepo(db db) DriverRepo {
	return &pgDriverRepo{db: db}
}

const driverColumns = `id, name, license_number, license_expiry, license_category,
	       status, created_at, updated_at`

func (r *pgDriverRepo) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	const q = `
		INSERT INTO drivers (name, license_number, license_expiry, license_category, status)
		VALUES (@name, @license_number, @license_expiry, @license_category, @status)
		RETURNING ` + driverColumns

	args := pgx.NamedArgs{
		"name":             driver.Name,
		"license_number":   driver.LicenseNumber,
		"license_expiry":   driver.LicenseExpiry,
		"license_category": driver.LicenseCategory,
		"status":           driver.Status,
	}

	result, err := scanDriver(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: license number already registered: %w", domain.ErrConflict)
		}
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	const q = `SELECT ` + driverColumns + ` FROM drivers WHERE id = @id`

	result, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) List(ctx context.Context, filter DriverFilter) ([]domain.Driver, error) {
	q := `SELECT ` + driverColumns + ` FROM drivers WHERE 1=1`
	args := pgx.NamedArgs{}

	if filter.Status != nil {
		q += ` AND status = @status`
		args["status"] = *filter.Status
	}
	if filter.Search != "" {
		q += ` AND (name ILIKE @search OR license_number ILIKE @search)`
		args["search"] = "%" + filter.Search + "%"
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.List: %w", err)
	}
	defer rows.Close()

	var drivers []domain.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DriverRepo.List: scan: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.List: rows: %w", err)
	}

	return drivers, nil
}

func (r *pgDriverRepo) Update(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	const q = `
		UPDATE drivers
		SET name             = @name,
		    license_number   = @license_number,
		    license_expiry   = @license_expiry,
		    license_category = @license_category,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + driverColumns

	args := pgx.NamedArgs{
		"id":               driver.ID,
		"name":             driver.Name,
		"license_number":   driver.LicenseNumber,
		"license_expiry":   driver.LicenseExpiry,
		"license_category": driver.LicenseCategory,
	}

	result, err := scanDriver(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.DriverStatus) error {
	const q = `
		UPDATE drivers
		SET status     = @to_status,
		    updated_at = now()
		WHERE id = @id AND status = @from_status`

	args := pgx.NamedArgs{
		"id":          id,
		"from_status": from,
		"to_status":   to,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.DriverRepo.SetStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DriverRepo.SetStatus: driver no longer %s: %w", from, domain.ErrConflict)
	}
	return nil
}

func (r *pgDriverRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM drivers WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.DriverRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DriverRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanDriver maps a single database row into a domain.Driver.
func scanDriver(s scanner) (domain.Driver, error) {
	var (
		d      domain.Driver
		id     pgtype.UUID
		expiry pgtype.Date
	)

	err := s.Scan(&id, &d.Name, &d.LicenseNumber, &expiry, &d.LicenseCategory,
		&d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Driver{}, domain.ErrNotFound
		}
		return domain.Driver{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.LicenseExpiry = expiry.Time
	return d, nil
}
