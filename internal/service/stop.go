package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// StopService implements business logic for route stops. It holds both the
// trip and stop repos because every stop write must verify the parent trip
// exists and is still editable.
type StopService struct {
	trips repo.TripRepo
	stops repo.StopRepo
}

// NewStopService constructs a StopService backed by the provided repos.
func NewStopService(trips repo.TripRepo, stops repo.StopRepo) *StopService {
	return &StopService{trips: trips, stops: stops}
}

// Create validates the stop, verifies the parent trip is still editable, then
// persists. Returns domain.ErrValidation for invalid input, domain.ErrNotFound
// if the parent trip does not exist, and domain.ErrInvalidState if the trip
// has already reached a terminal status.
func (s *StopService) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	trip, err := s.trips.GetByID(ctx, stop.TripID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	if trip.Status.Terminal() {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: trip is %s: %w",
			trip.Status, domain.ErrInvalidState)
	}
	if err := validateStop(stop); err != nil {
		return domain.Stop{}, err
	}
	result, err := s.stops.Create(ctx, stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single stop by ID, scoped to the given tripID.
// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
func (s *StopService) GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error) {
	result, err := s.stops.GetByID(ctx, tripID, stopID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID returns all stops for a trip in route order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *StopService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	stops, err := s.stops.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.StopService.ListByTripID: %w", err)
	}
	if stops == nil {
		return []domain.Stop{}, nil
	}
	return stops, nil
}

// Update validates and persists changes to an existing stop. Arrival and
// departure times are recorded through this path as the trip runs, so updates
// stay allowed while the trip is DISPATCHED; only terminal trips are frozen.
func (s *StopService) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	trip, err := s.trips.GetByID(ctx, stop.TripID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	if trip.Status.Terminal() {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: trip is %s: %w",
			trip.Status, domain.ErrInvalidState)
	}
	if err := validateStop(stop); err != nil {
		return domain.Stop{}, err
	}
	result, err := s.stops.Update(ctx, stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a stop by ID, scoped to the given tripID.
// Returns domain.ErrNotFound if the stop does not exist under the given trip.
func (s *StopService) Delete(ctx context.Context, tripID, stopID uuid.UUID) error {
	if err := s.stops.Delete(ctx, tripID, stopID); err != nil {
		return fmt.Errorf("service.StopService.Delete: %w", err)
	}
	return nil
}

// validateStop enforces business rules common to both Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Seq must be at least 1.
//   - DepartedAt requires ArrivedAt and must not be before it.
func validateStop(stop domain.Stop) error {
	if strings.TrimSpace(stop.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if stop.Seq < 1 {
		return fmt.Errorf("%w: seq must be at least 1", domain.ErrValidation)
	}
	if stop.DepartedAt != nil {
		if stop.ArrivedAt == nil {
			return fmt.Errorf("%w: departed_at requires arrived_at", domain.ErrValidation)
		}
		if stop.DepartedAt.Before(*stop.ArrivedAt) {
			return fmt.Errorf("%w: departed_at must not be before arrived_at", domain.ErrValidation)
		}
	}
	return nil
}
