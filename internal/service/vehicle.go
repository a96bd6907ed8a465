package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// VehicleService implements business logic for Vehicle operations.
// It holds the trip repo as well because deleting or retiring a vehicle
// requires checking for trips that still reference it.
type VehicleService struct {
	vehicles repo.VehicleRepo
	trips    repo.TripRepo
}

// NewVehicleService constructs a VehicleService backed by the provided repos.
func NewVehicleService(vehicles repo.VehicleRepo, trips repo.TripRepo) *VehicleService {
	return &VehicleService{vehicles: vehicles, trips: trips}
}

// Create validates and persists a new vehicle. New vehicles start AVAILABLE
// and their initial odometer is recorded alongside the running odometer.
// Returns domain.ErrValidation for invalid input, domain.ErrConflict if the
// license plate is already registered.
func (s *VehicleService) Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	if err := validateVehicle(vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	vehicle.Status = domain.VehicleAvailable
	result, err := s.vehicles.Create(ctx, vehicle)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single vehicle by ID.
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	result, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.GetByID: %w", err)
	}
	return result, nil
}

// List returns a page of vehicles matching the filter plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *VehicleService) List(ctx context.Context, filter repo.VehicleFilter, page domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	vehicles, total, err := s.vehicles.ListPaged(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("service.VehicleService.List: %w", err)
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	return vehicles, total, nil
}

// Update validates and persists changes to a vehicle's descriptive fields.
// Status and odometer are deliberately out of reach here: status moves only
// through the trip lifecycle, maintenance, and SetStatus; the odometer moves
// only when a trip completes.
func (s *VehicleService) Update(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	if err := validateVehicle(vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	result, err := s.vehicles.Update(ctx, vehicle)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Update: %w", err)
	}
	return result, nil
}

// SetStatus performs a manual status change, e.g. retiring a vehicle or
// returning a retired one to service. ON_TRIP can never be set manually, and
// a vehicle currently ON_TRIP cannot be moved at all — its status belongs to
// the active trip until that trip completes or is cancelled.
// Returns domain.ErrConflict if the vehicle's status changed concurrently.
func (s *VehicleService) SetStatus(ctx context.Context, id uuid.UUID, to domain.VehicleStatus) (domain.Vehicle, error) {
	if !to.Valid() {
		return domain.Vehicle{}, fmt.Errorf("%w: unknown vehicle status %q", domain.ErrValidation, to)
	}
	if to == domain.VehicleOnTrip {
		return domain.Vehicle{}, fmt.Errorf("%w: ON_TRIP is set by dispatching a trip", domain.ErrValidation)
	}

	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.SetStatus: %w", err)
	}
	if vehicle.Status == domain.VehicleOnTrip {
		return domain.Vehicle{}, fmt.Errorf("%w: vehicle is on an active trip", domain.ErrConflict)
	}
	if vehicle.Status == to {
		return vehicle, nil
	}

	if err := s.vehicles.SetStatus(ctx, id, vehicle.Status, to, nil); err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.SetStatus: %w", err)
	}
	vehicle.Status = to
	return vehicle, nil
}

// Delete removes a vehicle. Refused with domain.ErrConflict while any DRAFT
// or DISPATCHED trip still references it.
func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	active, err := s.trips.HasActiveByVehicle(ctx, id)
	if err != nil {
		return fmt.Errorf("service.VehicleService.Delete: %w", err)
	}
	if active {
		return fmt.Errorf("%w: vehicle has active trips", domain.ErrConflict)
	}
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.VehicleService.Delete: %w", err)
	}
	return nil
}

// validateVehicle enforces rules common to both Create and Update.
//   - Name and license plate must be non-empty.
//   - Max capacity and odometer must not be negative.
func validateVehicle(vehicle domain.Vehicle) error {
	if strings.TrimSpace(vehicle.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(vehicle.LicensePlate) == "" {
		return fmt.Errorf("%w: license plate is required", domain.ErrValidation)
	}
	if vehicle.MaxCapacity < 0 {
		return fmt.Errorf("%w: max capacity must not be negative", domain.ErrValidation)
	}
	if vehicle.Odometer < 0 {
		return fmt.Errorf("%w: odometer must not be negative", domain.ErrValidation)
	}
	return nil
}
