package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// DriverService implements business logic for Driver operations. Manual
// status changes here cover compliance (suspension) and rostering
// (off-duty); ON_DUTY belongs to the trip lifecycle alone.
type DriverService struct {
	drivers repo.DriverRepo
	trips   repo.TripRepo
}

// NewDriverService constructs a DriverService backed by the provided repos.
func NewDriverService(drivers repo.DriverRepo, trips repo.TripRepo) *DriverService {
	return &DriverService{drivers: drivers, trips: trips}
}

// Create validates and persists a new driver. New drivers start AVAILABLE.
// Returns domain.ErrConflict if the license number is already registered.
func (s *DriverService) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	if err := validateDriver(driver); err != nil {
		return domain.Driver{}, err
	}
	driver.Status = domain.DriverAvailable
	result, err := s.drivers.Create(ctx, driver)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single driver by ID.
func (s *DriverService) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	result, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.GetByID: %w", err)
	}
	return result, nil
}

// List returns drivers matching the filter, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *DriverService) List(ctx context.Context, filter repo.DriverFilter) ([]domain.Driver, error) {
	drivers, err := s.drivers.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.DriverService.List: %w", err)
	}
	if drivers == nil {
		drivers = []domain.Driver{}
	}
	return drivers, nil
}

// Update validates and persists changes to a driver's descriptive and
// license fields. Status is out of reach here; use SetStatus.
func (s *DriverService) Update(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	if err := validateDriver(driver); err != nil {
		return domain.Driver{}, err
	}
	result, err := s.drivers.Update(ctx, driver)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Update: %w", err)
	}
	return result, nil
}

// SetStatus performs a manual status change: suspending a driver, marking
// them off duty, or returning them to AVAILABLE. ON_DUTY can never be set
// manually, and a driver currently ON_DUTY cannot be moved — their status
// belongs to the active trip until it completes or is cancelled.
// Returns domain.ErrConflict if the driver's status changed concurrently.
func (s *DriverService) SetStatus(ctx context.Context, id uuid.UUID, to domain.DriverStatus) (domain.Driver, error) {
	if !to.Valid() {
		return domain.Driver{}, fmt.Errorf("%w: unknown driver status %q", domain.ErrValidation, to)
	}
	if to == domain.DriverOnDuty {
		return domain.Driver{}, fmt.Errorf("%w: ON_DUTY is set by dispatching a trip", domain.ErrValidation)
	}

	driver, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.SetStatus: %w", err)
	}
	if driver.Status == domain.DriverOnDuty {
		return domain.Driver{}, fmt.Errorf("%w: driver is on an active trip", domain.ErrConflict)
	}
	if driver.Status == to {
		return driver, nil
	}

	if err := s.drivers.SetStatus(ctx, id, driver.Status, to); err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.SetStatus: %w", err)
	}
	driver.Status = to
	return driver, nil
}

// Delete removes a driver. Refused with domain.ErrConflict while any DRAFT
// or DISPATCHED trip still references them.
func (s *DriverService) Delete(ctx context.Context, id uuid.UUID) error {
	active, err := s.trips.HasActiveByDriver(ctx, id)
	if err != nil {
		return fmt.Errorf("service.DriverService.Delete: %w", err)
	}
	if active {
		return fmt.Errorf("%w: driver has active trips", domain.ErrConflict)
	}
	if err := s.drivers.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.DriverService.Delete: %w", err)
	}
	return nil
}

// validateDriver enforces rules common to both Create and Update.
//   - Name and license number must be non-empty.
//   - License expiry must be set.
func validateDriver(driver domain.Driver) error {
	if strings.TrimSpace(driver.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(driver.LicenseNumber) == "" {
		return fmt.Errorf("%w: license number is required", domain.ErrValidation)
	}
	if driver.LicenseExpiry.IsZero() {
		return fmt.Errorf("%w: license expiry is required", domain.ErrValidation)
	}
	return nil
}
