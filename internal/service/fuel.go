package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// FuelService records fuel fill-ups against vehicles. Logs are append-only;
// a fill-up happened whether or not the books like it.
type FuelService struct {
	fuel     repo.FuelRepo
	vehicles repo.VehicleRepo
}

// NewFuelService constructs a FuelService backed by the provided repos.
func NewFuelService(fuel repo.FuelRepo, vehicles repo.VehicleRepo) *FuelService {
	return &FuelService{fuel: fuel, vehicles: vehicles}
}

// Create validates and persists a new fuel log. The vehicle must exist; the
// trip and driver references are optional and trusted as given.
func (s *FuelService) Create(ctx context.Context, log domain.FuelLog) (domain.FuelLog, error) {
	if log.Liters <= 0 {
		return domain.FuelLog{}, fmt.Errorf("%w: liters must be positive", domain.ErrValidation)
	}
	if log.Cost < 0 {
		return domain.FuelLog{}, fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if log.Date.IsZero() {
		log.Date = time.Now().UTC()
	}

	if _, err := s.vehicles.GetByID(ctx, log.VehicleID); err != nil {
		return domain.FuelLog{}, fmt.Errorf("service.FuelService.Create: vehicle: %w", err)
	}

	result, err := s.fuel.Create(ctx, log)
	if err != nil {
		return domain.FuelLog{}, fmt.Errorf("service.FuelService.Create: %w", err)
	}
	return result, nil
}

// List returns all fuel logs, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *FuelService) List(ctx context.Context) ([]domain.FuelLog, error) {
	logs, err := s.fuel.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.FuelService.List: %w", err)
	}
	if logs == nil {
		return []domain.FuelLog{}, nil
	}
	return logs, nil
}
