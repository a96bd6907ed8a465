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

// StopRepo defines the persistence operations for route stops.
// All write and single-read operations are scoped by tripID so a stop can
// never be read or mutated through the wrong trip.
type StopRepo interface {
	// Create inserts a new stop and returns the persisted record.
	// Returns domain.ErrConflict if the trip already has a stop at that seq.
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// GetByID retrieves a single stop by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error)

	// ListByTripID returns all stops for a trip in route order (seq ascending).
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)

	// Update overwrites the mutable fields of a stop, scoped to the given tripID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// Delete removes a stop by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	Delete(ctx context.Context, tripID, stopID uuid.UUID) error
}

// pgStopRepo is the Postgres implementation of StopRepo.
type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopColumns = `id, trip_id, seq, name, location, arrived_at, departed_at,
	       notes, created_at, updated_at`

func (r *pgStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		INSERT INTO stops (trip_id, seq, name, location, arrived_at, departed_at, notes)
		VALUES (@trip_id, @seq, @name, @location, @arrived_at, @departed_at, @notes)
		RETURNING ` + stopColumns

	args := pgx.NamedArgs{
		"trip_id":     stop.TripID,
		"seq":         stop.Seq,
		"name":        stop.Name,
		"location":    stop.Location,
		"arrived_at":  stop.ArrivedAt,
		"departed_at": stop.DepartedAt,
		"notes":       stop.Notes,
	}

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: seq %d taken: %w", stop.Seq, domain.ErrConflict)
		}
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE id = @id AND trip_id = @trip_id`

	result, err := scanStop(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": stopID, "trip_id": tripID}))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE trip_id = @trip_id
		ORDER BY seq`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	stops := []domain.Stop{}
	for rows.Next() {
		stop, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.ListByTripID: scan: %w", err)
		}
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: rows: %w", err)
	}
	return stops, nil
}

func (r *pgStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		UPDATE stops
		SET seq         = @seq,
		    name        = @name,
		    location    = @location,
		    arrived_at  = @arrived_at,
		    departed_at = @departed_at,
		    notes       = @notes,
		    updated_at  = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + stopColumns

	args := pgx.NamedArgs{
		"id":          stop.ID,
		"trip_id":     stop.TripID,
		"seq":         stop.Seq,
		"name":        stop.Name,
		"location":    stop.Location,
		"arrived_at":  stop.ArrivedAt,
		"departed_at": stop.DepartedAt,
		"notes":       stop.Notes,
	}

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: seq %d taken: %w", stop.Seq, domain.ErrConflict)
		}
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) Delete(ctx context.Context, tripID, stopID uuid.UUID) error {
	const q = `DELETE FROM stops WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": stopID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		stop   domain.Stop
		id     pgtype.UUID
		tripID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &stop.Seq, &stop.Name, &stop.Location,
		&stop.ArrivedAt, &stop.DepartedAt, &stop.Notes, &stop.CreatedAt, &stop.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stop{}, domain.ErrNotFound
		}
		return domain.Stop{}, err
	}
	stop.ID = uuid.UUID(id.Bytes)
	stop.TripID = uuid.UUID(tripID.Bytes)
	return stop, nil
}
